package container

import (
	"encoding/binary"
	"image"
	"image/color"
	"testing"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-snxrom/pkg/layers"
	"jinr.ru/greenlab/go-snxrom/pkg/mark"
)

// buildContainer lays out assets back to back after the header and asset table,
// each one starting on a 16-byte boundary.
func buildContainer(assets ...[]byte) []byte {
	n := len(assets)
	buf := layers.Marshal(layers.NewHeader(uint32(n)))
	buf = append(buf, make([]byte, 4*n)...)
	for i, a := range assets {
		for len(buf)%16 != 0 {
			buf = append(buf, 0)
		}
		binary.LittleEndian.PutUint32(buf[layers.HeaderSize+4*i:], uint32(len(buf)))
		buf = append(buf, a...)
	}
	return buf
}

func metadataAsset() []byte {
	meta := &layers.ROMMetadata{StoryID: 5, EyeAnimations: 1, EyeImages: 2, VideoSequences: 1, AudioBlocks: 2}
	eye := &layers.EyeAnimation{AnimationID: 11, StartEyeID: 1, Frames: 2}
	seq := &layers.VideoAudioSequence{VideoID: 1, StartAudioID: 3, AudioBlocks: 2}
	buf := layers.Marshal(meta)
	buf = append(buf, layers.Marshal(eye)...)
	return append(buf, layers.Marshal(seq)...)
}

func bitmapAsset(first RGB565) []byte {
	bm := &Bitmap{}
	bm.Pix[0] = first
	bm.Pix[len(bm.Pix)-1] = 0x07e0
	return bm.Bytes()
}

func audioAsset(t *testing.T, events []mark.Event, payload []byte) []byte {
	table, err := mark.EncodeBytes(events)
	require.NoError(t, err)
	a := &layers.AudioLayer{
		Header:    layers.AudioHeader{SampleRate: 16000, BitRate: 1600, Channels: 1, Audio32Type: 0xffff, Padding: 0xffff},
		MarkTable: table,
		Audio:     payload,
	}
	buf := gopacket.NewSerializeBuffer()
	require.NoError(t, a.SerializeTo(buf, gopacket.SerializeOptions{FixLengths: true}))
	return buf.Bytes()
}

func testContainer(t *testing.T) []byte {
	return buildContainer(
		metadataAsset(),
		bitmapAsset(0xf800),
		bitmapAsset(0x0000),
		audioAsset(t, []mark.Event{{Duration: 0, ID: 0}, {Duration: 200, ID: 2}}, []byte{1, 2, 3, 4}),
		audioAsset(t, nil, []byte{5, 6}),
	)
}

func TestAssetSizes(t *testing.T) {
	assert.Equal(t, []int{64, 128, 44}, AssetSizes([]uint32{64, 128, 256}, 300))
	assert.Empty(t, AssetSizes(nil, 512))
}

func TestParse(t *testing.T) {
	c, err := Parse(testContainer(t))
	require.NoError(t, err)

	require.Len(t, c.Assets, 5)
	assert.Equal(t, KindMetadata, c.Assets[0].Kind)
	assert.Equal(t, KindUnknown, c.Assets[1].Kind)
	assert.Equal(t, KindUnknown, c.Assets[2].Kind, "zero tag only means metadata for the first asset")
	assert.Equal(t, KindAudio, c.Assets[3].Kind)
	assert.Equal(t, KindAudio, c.Assets[4].Kind)

	require.NotNil(t, c.Metadata)
	assert.Equal(t, uint16(5), c.Metadata.StoryID)
	require.Len(t, c.EyeAnimations, 1)
	assert.Equal(t, uint16(11), c.EyeAnimations[0].AnimationID)
	require.Len(t, c.Sequences, 1)
	assert.Equal(t, uint16(3), c.Sequences[0].StartAudioID)

	require.Len(t, c.EyeBitmaps, 2)
	assert.Equal(t, RGB565(0xf800), c.EyeBitmaps[1].Pix[0])
	assert.Equal(t, RGB565(0x07e0), c.EyeBitmaps[2].Pix[EyeWidth*EyeHeight-1])

	require.Len(t, c.Audio, 2)
	first, err := c.FirstAudio()
	require.NoError(t, err)
	assert.Equal(t, 3, first.Index)
	assert.Equal(t, []mark.Event{{Duration: 0, ID: 0}, {Duration: 200, ID: 2}}, first.Marks)
	assert.Equal(t, []byte{1, 2, 3, 4}, first.Payload)
	assert.Equal(t, uint16(1), first.Header.MarkFlag)
	assert.Equal(t, uint16(16+5), first.Header.HeaderSize)
	assert.Equal(t, []mark.Event(nil), c.Audio[1].Marks)

	sizes := AssetSizes(c.Offsets, c.Len())
	for i, a := range c.Assets {
		assert.Equal(t, sizes[i], a.Size)
	}
}

func TestParseWithoutMetadata(t *testing.T) {
	c, err := Parse(buildContainer(audioAsset(t, []mark.Event{{Duration: 10, ID: 1}}, []byte{9, 9})))
	require.NoError(t, err)
	assert.Nil(t, c.Metadata)
	assert.Empty(t, c.EyeAnimations)
	assert.Empty(t, c.EyeBitmaps)
	require.Len(t, c.Audio, 1)
	assert.Equal(t, 0, c.Audio[0].Index)
}

func TestParseSelfCountingMarkTable(t *testing.T) {
	a := &layers.AudioLayer{
		Header:    layers.AudioHeader{SampleRate: 16000, BitRate: 1600, Channels: 1, Audio32Type: 0xffff, Padding: 0xffff},
		MarkTable: mark.Bytes([]uint16{5, 100, 1, 200, 2, 0xffff, 0xffff, 0}),
		Audio:     []byte{1, 2},
	}
	buf := gopacket.NewSerializeBuffer()
	require.NoError(t, a.SerializeTo(buf, gopacket.SerializeOptions{FixLengths: true}))

	c, err := Parse(buildContainer(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, c.Audio, 1)
	assert.Equal(t, []mark.Event{{Duration: 100, ID: 1}, {Duration: 200, ID: 2}}, c.Audio[0].Marks)
	assert.Equal(t, []byte{1, 2}, c.Audio[0].Payload)
}

func TestParseErrors(t *testing.T) {
	var formatErr *ErrFormat
	var truncErr *ErrTruncatedAsset

	t.Run("bad magic", func(t *testing.T) {
		data := testContainer(t)
		data[0] = 'X'
		_, err := Parse(data)
		assert.ErrorAs(t, err, &formatErr)
	})

	t.Run("short header", func(t *testing.T) {
		_, err := Parse(make([]byte, 100))
		assert.ErrorAs(t, err, &formatErr)
	})

	t.Run("offset past end", func(t *testing.T) {
		data := testContainer(t)
		binary.LittleEndian.PutUint32(data[layers.HeaderSize+4*4:], uint32(len(data)+10))
		_, err := Parse(data)
		require.ErrorAs(t, err, &truncErr)
		assert.Equal(t, 4, truncErr.Asset)
	})

	t.Run("offsets not ascending", func(t *testing.T) {
		data := testContainer(t)
		binary.LittleEndian.PutUint32(data[layers.HeaderSize+4*2:], 0x100)
		_, err := Parse(data)
		assert.ErrorAs(t, err, &formatErr)
	})

	t.Run("audio payload past asset", func(t *testing.T) {
		data := testContainer(t)
		c, err := Parse(data)
		require.NoError(t, err)
		off := c.Audio[0].Offset
		binary.LittleEndian.PutUint32(data[off+12:], 1000)
		_, err = Parse(data)
		require.ErrorAs(t, err, &truncErr)
		assert.Equal(t, 3, truncErr.Asset)
		assert.Equal(t, 2000, truncErr.Want)
	})

	t.Run("eye bitmap outside table", func(t *testing.T) {
		data := testContainer(t)
		c, err := Parse(data)
		require.NoError(t, err)
		// StartEyeID of the only eye animation
		binary.LittleEndian.PutUint16(data[c.Offsets[0]+layers.ROMMetadataSize+2:], 40)
		_, err = Parse(data)
		assert.ErrorAs(t, err, &formatErr)
	})

	t.Run("eye bitmap too small", func(t *testing.T) {
		data := buildContainer(metadataAsset(), []byte{1, 2, 3, 4}, bitmapAsset(0))
		_, err := Parse(data)
		require.ErrorAs(t, err, &truncErr)
		assert.Equal(t, 1, truncErr.Asset)
	})
}

func TestSpliceAudioAsset(t *testing.T) {
	c, err := Parse(testContainer(t))
	require.NoError(t, err)
	audio, err := c.FirstAudio()
	require.NoError(t, err)

	events := []mark.Event{{Duration: 0, ID: 0}, {Duration: 200, ID: 1}, {Duration: 40000, ID: 2}}
	table, err := mark.EncodeBytes(events)
	require.NoError(t, err)
	payload := []byte{0xa, 0xb, 0xc, 0xd, 0xe, 0xf}
	header := audio.Header
	header.TotalAudioFrames = 3

	out, err := SpliceAudioAsset(c, audio.Index, header, table, payload)
	require.NoError(t, err)

	assert.Zero(t, len(out)%layers.SectorSize)
	end := int(audio.Offset) + layers.AudioHeaderSize + len(table) + len(payload)
	for i := end; i < len(out); i++ {
		require.Equal(t, byte(0xff), out[i], "padding byte at %#x", i)
	}
	assert.Equal(t, c.Raw()[layers.HeaderSize+20:audio.Offset], out[layers.HeaderSize+20:audio.Offset])
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, out[layers.HeaderSize+16:layers.HeaderSize+20])

	patched, err := Parse(out)
	require.NoError(t, err)
	assert.Len(t, patched.Assets, 4)
	require.Len(t, patched.Audio, 1)
	got := patched.Audio[0]
	assert.Equal(t, events, got.Marks)
	assert.Equal(t, table, got.MarkTable)
	assert.Equal(t, payload, got.Payload)
	assert.Equal(t, uint16((layers.AudioHeaderSize+len(table))/2), got.Header.HeaderSize)
	assert.Equal(t, uint16(1), got.Header.MarkFlag)
	assert.Equal(t, uint32(3), got.Header.PayloadWords)
	assert.Equal(t, uint32(3), got.Header.TotalAudioFrames)
	assert.Equal(t, c.EyeBitmaps, patched.EyeBitmaps)
}

func TestSpliceWithoutMarks(t *testing.T) {
	c, err := Parse(testContainer(t))
	require.NoError(t, err)
	audio, err := c.FirstAudio()
	require.NoError(t, err)

	out, err := SpliceAudioAsset(c, audio.Index, audio.Header, nil, audio.Payload)
	require.NoError(t, err)
	patched, err := Parse(out)
	require.NoError(t, err)
	got := patched.Audio[0]
	assert.Equal(t, uint16(0), got.Header.MarkFlag)
	assert.Equal(t, uint16(layers.AudioHeaderWords), got.Header.HeaderSize)
	assert.Empty(t, got.Marks)
}

func TestSpliceInvariants(t *testing.T) {
	c, err := Parse(testContainer(t))
	require.NoError(t, err)
	audio, err := c.FirstAudio()
	require.NoError(t, err)

	var invErr *ErrInvariantViolation
	_, err = SpliceAudioAsset(c, audio.Index, audio.Header, []byte{1, 2, 3}, nil)
	assert.ErrorAs(t, err, &invErr)
	_, err = SpliceAudioAsset(c, audio.Index, audio.Header, nil, []byte{1})
	assert.ErrorAs(t, err, &invErr)
	_, err = SpliceAudioAsset(c, 9, audio.Header, nil, nil)
	assert.ErrorAs(t, err, &invErr)
}

func TestRewriteAssetTable(t *testing.T) {
	data := testContainer(t)
	require.NoError(t, RewriteAssetTable(data, 2))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[layers.AssetCountOffset:]))
	for i := layers.HeaderSize + 8; i < layers.HeaderSize+20; i++ {
		assert.Equal(t, byte(0xff), data[i])
	}

	var invErr *ErrInvariantViolation
	assert.ErrorAs(t, RewriteAssetTable(data, 3), &invErr)
}

func TestBitmapColors(t *testing.T) {
	bm := &Bitmap{}
	bm.Pix[0] = 0xf800
	bm.Pix[1] = 0x001f
	bm.Pix[EyeWidth] = 0xffff

	assert.Equal(t, image.Rect(0, 0, 128, 128), bm.Bounds())
	r, g, b, a := bm.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0, 0xffff}, []uint32{r, g, b, a})
	r, g, b, _ = bm.At(1, 0).RGBA()
	assert.Equal(t, []uint32{0, 0, 0xffff}, []uint32{r, g, b})
	assert.Equal(t, RGB565(0xffff), bm.At(0, 1))

	img := image.NewRGBA(image.Rect(0, 0, 128, 128))
	img.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})
	img.Set(5, 7, color.RGBA{G: 0xff, B: 0xff, A: 0xff})
	converted := BitmapFromImage(img)
	assert.Equal(t, RGB565(0xf800), converted.Pix[0])
	assert.Equal(t, RGB565(0x07ff), converted.Pix[7*EyeWidth+5])

	assert.Equal(t, bm.Pix, DecodeBitmap(bm.Bytes()).Pix)
}

func TestSummary(t *testing.T) {
	c, err := Parse(testContainer(t))
	require.NoError(t, err)
	s := c.Summary()
	assert.Equal(t, []int{1, 2}, s.EyeBitmaps)
	assert.Len(t, s.Assets, 5)
	assert.Equal(t, "metadata", s.Assets[0].Kind)
	assert.Len(t, s.Audio, 2)

	out := s.String()
	assert.Contains(t, out, "storyId: 5")
	assert.Contains(t, out, "kind: audio")
}

func TestBuild(t *testing.T) {
	orig, err := Parse(testContainer(t))
	require.NoError(t, err)

	out, err := Build(orig.Story())
	require.NoError(t, err)
	assert.Zero(t, len(out)%layers.SectorSize)

	c, err := Parse(out)
	require.NoError(t, err)
	require.Len(t, c.Assets, 5)
	for _, a := range c.Assets {
		assert.Zero(t, a.Offset%AssetAlign)
	}
	assert.Equal(t, orig.Metadata.StoryID, c.Metadata.StoryID)
	assert.Equal(t, uint32(len(out)), c.Metadata.FileSize())
	assert.Equal(t, uint16(2), c.Metadata.EyeImages)
	assert.Equal(t, uint16(2), c.Metadata.AudioBlocks)
	assert.Equal(t, orig.EyeAnimations, c.EyeAnimations)
	assert.Equal(t, orig.Sequences, c.Sequences)
	assert.Equal(t, orig.EyeBitmaps, c.EyeBitmaps)
	require.Len(t, c.Audio, 2)
	for i := range c.Audio {
		assert.Equal(t, orig.Audio[i].Header, c.Audio[i].Header)
		assert.Equal(t, orig.Audio[i].Marks, c.Audio[i].Marks)
		assert.Equal(t, orig.Audio[i].Payload, c.Audio[i].Payload)
	}
}

func TestBuildInvariants(t *testing.T) {
	var invErr *ErrInvariantViolation

	_, err := Build(&Story{EyeBitmaps: map[int]*Bitmap{2: {}}})
	assert.ErrorAs(t, err, &invErr)

	_, err = Build(&Story{
		EyeAnimations: []layers.EyeAnimation{{AnimationID: 11, StartEyeID: 1, Frames: 2}},
		EyeBitmaps:    map[int]*Bitmap{1: {}},
	})
	assert.ErrorAs(t, err, &invErr)

	out, err := Build(&Story{StoryID: 3})
	require.NoError(t, err)
	c, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, uint16(3), c.Metadata.StoryID)
	assert.Empty(t, c.Audio)
}
