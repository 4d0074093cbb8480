/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package speech

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"jinr.ru/greenlab/go-snxrom/pkg/layers"
	"jinr.ru/greenlab/go-snxrom/pkg/log"
)

// Chunks describes how the codec frames the audio at a given sample rate
type Chunks struct {
	BitRate uint16
	// InSamples is the number of PCM samples per encoded frame
	InSamples int
	// OutBytes is the size of one encoded frame
	OutBytes int
}

// ChunkSizes picks the bit rate and frame sizes for the sample rate
func ChunkSizes(sampleRate int) Chunks {
	if sampleRate >= 24000 {
		return Chunks{BitRate: 3200, InSamples: 640, OutBytes: 80}
	}
	return Chunks{BitRate: 1600, InSamples: 320, OutBytes: 40}
}

// Encoder compresses PCM into the audio payload of an audio asset
type Encoder interface {
	Encode(ctx context.Context, pcm *PCM, chunks Chunks) ([]byte, error)
}

// ExecEncoder runs an external encoder, PCM goes to its stdin and the payload is read from its stdout.
// The placeholders {sampleRate}, {bitRate}, {inChunk} and {outChunk} in Args are expanded.
type ExecEncoder struct {
	Command string
	Args    []string
}

func NewExecEncoder(command string, args ...string) *ExecEncoder {
	return &ExecEncoder{Command: command, Args: args}
}

func (e *ExecEncoder) args(pcm *PCM, chunks Chunks) []string {
	r := strings.NewReplacer(
		"{sampleRate}", strconv.Itoa(pcm.SampleRate),
		"{bitRate}", strconv.Itoa(int(chunks.BitRate)),
		"{inChunk}", strconv.Itoa(chunks.InSamples),
		"{outChunk}", strconv.Itoa(chunks.OutBytes),
	)
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = r.Replace(a)
	}
	return args
}

func (e *ExecEncoder) Encode(ctx context.Context, pcm *PCM, chunks Chunks) ([]byte, error) {
	if e.Command == "" {
		return nil, &ErrEncoder{Command: "<none>", Err: fmt.Errorf("no encoder command configured")}
	}
	args := e.args(pcm, chunks)
	log.Debug("ExecEncoder: running %s %s", e.Command, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, e.Command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(pcm.Bytes())
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &ErrEncoder{Command: e.Command, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	payload := stdout.Bytes()
	if len(payload)%2 != 0 {
		return nil, &ErrEncoder{Command: e.Command, Err: fmt.Errorf("odd payload length %d", len(payload))}
	}
	log.Info("Encoded %d samples into %d bytes at %d bit/s", len(pcm.Samples), len(payload), chunks.BitRate)
	return payload, nil
}

// NewAudioHeader describes a freshly encoded payload with no mark table
func NewAudioHeader(sampleRate int, chunks Chunks, payloadLen int) layers.AudioHeader {
	h := layers.AudioHeader{
		Tag:         layers.AudioTag,
		SampleRate:  uint16(sampleRate),
		BitRate:     chunks.BitRate,
		Channels:    NumChannels,
		Audio32Type: 0xffff,
		Padding:     0xffff,
	}
	if chunks.OutBytes > 0 {
		h.TotalAudioFrames = uint32(payloadLen / chunks.OutBytes)
	}
	h.SetLengths(0, payloadLen)
	return h
}

// DurationMs estimates the play time of a payload of payloadWords at bitRate
func DurationMs(payloadWords uint32, bitRate uint16) uint32 {
	if bitRate == 0 {
		return 0
	}
	return uint32(math.Round(float64(payloadWords) * 16 * 100 / float64(bitRate)))
}
