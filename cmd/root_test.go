package cmd

import (
	"bytes"
	"context"
	"encoding/binary"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-snxrom/pkg/container"
	"jinr.ru/greenlab/go-snxrom/pkg/layers"
	"jinr.ru/greenlab/go-snxrom/pkg/mark"
	"jinr.ru/greenlab/go-snxrom/pkg/speech"
)

func buildContainer(t *testing.T) []byte {
	meta := layers.Marshal(&layers.ROMMetadata{StoryID: 7, EyeAnimations: 1, EyeImages: 1, AudioBlocks: 1})
	meta = append(meta, layers.Marshal(&layers.EyeAnimation{AnimationID: 11, StartEyeID: 1, Frames: 1})...)
	bm := &container.Bitmap{}
	bm.Pix[0] = 0xf800

	table, err := mark.EncodeBytes([]mark.Event{{Duration: 0, ID: 0}, {Duration: 100, ID: 1}})
	require.NoError(t, err)
	payload := make([]byte, 1600)
	audio := &layers.AudioLayer{
		Header:    speech.NewAudioHeader(16000, speech.ChunkSizes(16000), len(payload)),
		MarkTable: table,
		Audio:     payload,
	}
	audio.Header.SetLengths(len(table), len(payload))
	au, err := audio.Bytes()
	require.NoError(t, err)

	assets := [][]byte{meta, bm.Bytes(), au}
	buf := layers.Marshal(layers.NewHeader(uint32(len(assets))))
	buf = append(buf, make([]byte, 4*len(assets))...)
	for i, a := range assets {
		for len(buf)%16 != 0 {
			buf = append(buf, 0)
		}
		binary.LittleEndian.PutUint32(buf[layers.HeaderSize+4*i:], uint32(len(buf)))
		buf = append(buf, a...)
	}
	return buf
}

func run(t *testing.T, args ...string) (string, error) {
	out := &bytes.Buffer{}
	cmd := NewRootCommand(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func setup(t *testing.T) (string, string) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := t.TempDir()
	src := filepath.Join(dir, "story.bin")
	require.NoError(t, os.WriteFile(src, buildContainer(t), 0644))
	return dir, src
}

func TestPatchCommand(t *testing.T) {
	dir, src := setup(t)
	visemes := filepath.Join(dir, "story.json")
	require.NoError(t, os.WriteFile(visemes, []byte(`{"mouthCues": [{"start": 0.3, "end": 0.6, "value": "C"}]}`), 0644))
	dst := filepath.Join(dir, "patched.bin")
	dumpAU := filepath.Join(dir, "new.au")

	out, err := run(t, "patch", "--rhubarb-json", visemes, "--random-eyes=false", "--dump-au", dumpAU, src, dst)
	require.NoError(t, err)
	assert.Contains(t, out, "Patched asset 2: 2 marks")

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	c, err := container.Parse(data)
	require.NoError(t, err)
	require.Len(t, c.Audio, 1)
	assert.Equal(t, []mark.Event{{Duration: 0, ID: 0}, {Duration: 100, ID: 1}}, c.Audio[0].Marks)

	au, err := os.ReadFile(dumpAU)
	require.NoError(t, err)
	layer, err := layers.ParseAudioFile(au)
	require.NoError(t, err)
	assert.Equal(t, c.Audio[0].Header, layer.Header)
}

func TestPatchCommandRandomEyes(t *testing.T) {
	dir, src := setup(t)
	visemes := filepath.Join(dir, "story.json")
	require.NoError(t, os.WriteFile(visemes, []byte(`{"mouthCues": []}`), 0644))

	// 800 payload words at 1600 play for 800 ms
	args := []string{"patch", "--rhubarb-json", visemes, "--seed", "3", "--random-eyes-median", "0.2", "--random-eyes-std-dev", "0"}
	_, err := run(t, append(args, src, filepath.Join(dir, "a.bin"))...)
	require.NoError(t, err)
	_, err = run(t, append(args, src, filepath.Join(dir, "b.bin"))...)
	require.NoError(t, err)

	a, err := os.ReadFile(filepath.Join(dir, "a.bin"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dir, "b.bin"))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := container.Parse(a)
	require.NoError(t, err)
	var eyes int
	for _, e := range c.Audio[0].Marks {
		if !e.IsMouth() {
			eyes++
		}
	}
	assert.Equal(t, 4, eyes) // 0, 200, 400, 600
}

func TestPatchCommandErrors(t *testing.T) {
	dir, src := setup(t)
	_, err := run(t, "patch", src)
	assert.Error(t, err)
	_, err = run(t, "patch", filepath.Join(dir, "missing.bin"), filepath.Join(dir, "out.bin"))
	assert.Error(t, err)

	wav := filepath.Join(dir, "in.wav")
	f, err := os.Create(wav)
	require.NoError(t, err)
	require.NoError(t, speech.WriteWAV(f, &speech.PCM{SampleRate: 16000, Samples: make([]int16, 320)}))
	require.NoError(t, f.Close())
	_, err = run(t, "patch", "--wav", wav, "--encoder", "/nonexistent/encoder", src, filepath.Join(dir, "out.bin"))
	var encErr *speech.ErrEncoder
	assert.ErrorAs(t, err, &encErr)
}

func TestDumpCommand(t *testing.T) {
	_, src := setup(t)
	out, err := run(t, "dump", src)
	require.NoError(t, err)
	assert.Contains(t, out, "storyId: 7")
	assert.Contains(t, out, "kind: audio")
	assert.Contains(t, out, "marks:")

	out, err = run(t, "dump", "--no-marks", src)
	require.NoError(t, err)
	assert.NotContains(t, out, "marks:")
}

func TestExtractCommand(t *testing.T) {
	dir, src := setup(t)
	outDir := filepath.Join(dir, "out")
	out, err := run(t, "extract", src, outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "eye001.png")
	assert.Contains(t, out, "audio002.au")

	f, err := os.Open(filepath.Join(outDir, "eye001.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0}, []uint32{r, g, b})

	au, err := os.ReadFile(filepath.Join(outDir, "audio002.au"))
	require.NoError(t, err)
	layer, err := layers.ParseAudioFile(au)
	require.NoError(t, err)
	assert.Empty(t, layer.MarkTable)
	assert.Len(t, layer.Audio, 1600)

	story, err := os.ReadFile(filepath.Join(outDir, "story.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(story), "storyId: 7")
}

func TestCatalogCommand(t *testing.T) {
	dir, src := setup(t)
	db := filepath.Join(dir, "catalog.db")

	out, err := run(t, "catalog", "--db", db, "add", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Added story.bin")

	out, err = run(t, "catalog", "--db", db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "story.bin")
	assert.Contains(t, out, "NAME")

	out, err = run(t, "catalog", "--db", db, "show", "story.bin")
	require.NoError(t, err)
	assert.Contains(t, out, "storyId: 7")

	_, err = run(t, "catalog", "--db", db, "remove", "story.bin")
	require.NoError(t, err)
	_, err = run(t, "catalog", "--db", db, "show", "story.bin")
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	setup(t)
	out, err := run(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, ".go-snxrom")

	_, err = run(t, "config", "init")
	assert.Error(t, err)

	out, err = run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "logLevel: info")
	assert.Contains(t, out, "latency:")
}

func TestExtractPackCommand(t *testing.T) {
	dir, src := setup(t)
	outDir := filepath.Join(dir, "out")
	_, err := run(t, "extract", src, outDir)
	require.NoError(t, err)

	packed := filepath.Join(dir, "packed.bin")
	out, err := run(t, "pack", outDir, packed)
	require.NoError(t, err)
	assert.Contains(t, out, "Packed")

	origData, err := os.ReadFile(src)
	require.NoError(t, err)
	orig, err := container.Parse(origData)
	require.NoError(t, err)
	data, err := os.ReadFile(packed)
	require.NoError(t, err)
	c, err := container.Parse(data)
	require.NoError(t, err)

	assert.Equal(t, orig.Metadata.StoryID, c.Metadata.StoryID)
	assert.Equal(t, orig.EyeAnimations, c.EyeAnimations)
	assert.Equal(t, orig.EyeBitmaps, c.EyeBitmaps)
	require.Len(t, c.Audio, 1)
	assert.Equal(t, orig.Audio[0].Marks, c.Audio[0].Marks)
	assert.Equal(t, orig.Audio[0].Payload, c.Audio[0].Payload)
	assert.Equal(t, orig.Audio[0].Header, c.Audio[0].Header)
}
