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

// Package speech is the boundary to the speech codec: WAV input, chunk sizes,
// the external encoder and the audio header describing its output.
package speech

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"jinr.ru/greenlab/go-snxrom/pkg/log"
)

const (
	BitDepth     = 16
	NumChannels  = 1
	pcmFormatTag = 1
)

// SupportedSampleRates are the rates the speech codec accepts
var SupportedSampleRates = []int{16000, 32000}

// PCM is mono 16-bit audio
type PCM struct {
	SampleRate int
	Samples    []int16
}

// Bytes is the little-endian sample stream fed to the encoder
func (p *PCM) Bytes() []byte {
	buf := make([]byte, 2*len(p.Samples))
	for i, s := range p.Samples {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	return buf
}

func (p *PCM) DurationMs() uint32 {
	if p.SampleRate == 0 {
		return 0
	}
	return uint32(uint64(len(p.Samples)) * 1000 / uint64(p.SampleRate))
}

func supportedRate(rate int) bool {
	for _, r := range SupportedSampleRates {
		if r == rate {
			return true
		}
	}
	return false
}

// ReadWAV decodes a WAV stream holding 16-bit mono PCM at 16 or 32 kHz
func ReadWAV(r io.ReadSeeker) (*PCM, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, &ErrWAVFormat{What: "not a valid WAV file"}
	}
	log.Debug("ReadWAV: format: %d rate: %d bits: %d channels: %d",
		d.WavAudioFormat, d.SampleRate, d.BitDepth, d.NumChans)
	if d.WavAudioFormat != pcmFormatTag {
		return nil, &ErrWAVFormat{What: fmt.Sprintf("audio format %d, want PCM", d.WavAudioFormat)}
	}
	if d.BitDepth != BitDepth {
		return nil, &ErrWAVFormat{What: fmt.Sprintf("%d-bit samples, want %d-bit", d.BitDepth, BitDepth)}
	}
	if d.NumChans != NumChannels {
		return nil, &ErrWAVFormat{What: fmt.Sprintf("%d channels, want mono", d.NumChans)}
	}
	if !supportedRate(int(d.SampleRate)) {
		return nil, &ErrWAVFormat{What: fmt.Sprintf("sample rate %d, want one of %v", d.SampleRate, SupportedSampleRates)}
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	pcm := &PCM{
		SampleRate: int(d.SampleRate),
		Samples:    make([]int16, len(buf.Data)),
	}
	for i, s := range buf.Data {
		pcm.Samples[i] = int16(s)
	}
	log.Debug("ReadWAV: %d samples, %d ms", len(pcm.Samples), pcm.DurationMs())
	return pcm, nil
}

func LoadWAV(data []byte) (*PCM, error) {
	return ReadWAV(bytes.NewReader(data))
}

// WriteWAV stores the samples as a PCM WAV file
func WriteWAV(w io.WriteSeeker, pcm *PCM) error {
	e := wav.NewEncoder(w, pcm.SampleRate, BitDepth, NumChannels, pcmFormatTag)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: NumChannels, SampleRate: pcm.SampleRate},
		Data:           make([]int, len(pcm.Samples)),
		SourceBitDepth: BitDepth,
	}
	for i, s := range pcm.Samples {
		buf.Data[i] = int(s)
	}
	if err := e.Write(buf); err != nil {
		return err
	}
	return e.Close()
}
