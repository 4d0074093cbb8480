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

package layers

import (
	"encoding/binary"
)

const (
	AudioHeaderSize = 32
	// AudioHeaderWords is the header size field of an audio asset without a mark table
	AudioHeaderWords = AudioHeaderSize / 2
	// AudioTypeWord is "AU" read as a little-endian word
	AudioTypeWord uint16 = 0x5541
)

var AudioTag = [2]byte{'A', 'U'}

// AudioHeader ... // 32 bytes
// HeaderSize and PayloadWords count 16-bit words. HeaderSize covers the header and the mark table.
type AudioHeader struct {
	Tag              [2]byte `json:"-"`
	SampleRate       uint16  `json:"sampleRate"`
	BitRate          uint16  `json:"bitRate"`
	Channels         uint16  `json:"channels"`
	TotalAudioFrames uint32  `json:"totalAudioFrames"`
	PayloadWords     uint32  `json:"sizeOfAudioBinary"`
	MarkFlag         uint16  `json:"markFlag"`
	SilenceFlag      uint16  `json:"silenceFlag"`
	MBF              uint16  `json:"mbf"`
	PCS              uint16  `json:"pcs"`
	Rec              uint16  `json:"rec"`
	HeaderSize       uint16  `json:"headerSize"`
	Audio32Type      uint16  `json:"audio32Type"`
	Padding          uint16  `json:"-"`
}

func (h *AudioHeader) Name() string { return "AudioHeader" }

func (h *AudioHeader) Size() int { return AudioHeaderSize }

func (h *AudioHeader) Decode(buf []byte) {
	copy(h.Tag[:], buf[0:2])
	h.SampleRate = binary.LittleEndian.Uint16(buf[2:4])
	h.BitRate = binary.LittleEndian.Uint16(buf[4:6])
	h.Channels = binary.LittleEndian.Uint16(buf[6:8])
	h.TotalAudioFrames = binary.LittleEndian.Uint32(buf[8:12])
	h.PayloadWords = binary.LittleEndian.Uint32(buf[12:16])
	h.MarkFlag = binary.LittleEndian.Uint16(buf[16:18])
	h.SilenceFlag = binary.LittleEndian.Uint16(buf[18:20])
	h.MBF = binary.LittleEndian.Uint16(buf[20:22])
	h.PCS = binary.LittleEndian.Uint16(buf[22:24])
	h.Rec = binary.LittleEndian.Uint16(buf[24:26])
	h.HeaderSize = binary.LittleEndian.Uint16(buf[26:28])
	h.Audio32Type = binary.LittleEndian.Uint16(buf[28:30])
	h.Padding = binary.LittleEndian.Uint16(buf[30:32])
}

func (h *AudioHeader) Serialize(buf []byte) {
	copy(buf[0:2], h.Tag[:])
	binary.LittleEndian.PutUint16(buf[2:4], h.SampleRate)
	binary.LittleEndian.PutUint16(buf[4:6], h.BitRate)
	binary.LittleEndian.PutUint16(buf[6:8], h.Channels)
	binary.LittleEndian.PutUint32(buf[8:12], h.TotalAudioFrames)
	binary.LittleEndian.PutUint32(buf[12:16], h.PayloadWords)
	binary.LittleEndian.PutUint16(buf[16:18], h.MarkFlag)
	binary.LittleEndian.PutUint16(buf[18:20], h.SilenceFlag)
	binary.LittleEndian.PutUint16(buf[20:22], h.MBF)
	binary.LittleEndian.PutUint16(buf[22:24], h.PCS)
	binary.LittleEndian.PutUint16(buf[24:26], h.Rec)
	binary.LittleEndian.PutUint16(buf[26:28], h.HeaderSize)
	binary.LittleEndian.PutUint16(buf[28:30], h.Audio32Type)
	binary.LittleEndian.PutUint16(buf[30:32], h.Padding)
}

// MarkTableLen is the size in bytes of the mark table between the header and the payload
func (h *AudioHeader) MarkTableLen() int {
	n := int(h.HeaderSize)*2 - AudioHeaderSize
	if n < 0 {
		return 0
	}
	return n
}

// PayloadOffset is the offset of the compressed audio relative to the header
func (h *AudioHeader) PayloadOffset() int {
	return int(h.HeaderSize) * 2
}

func (h *AudioHeader) PayloadLen() int {
	return int(h.PayloadWords) * 2
}

// Bare returns a copy of the header describing the same audio with no mark table,
// the way the audio encoder writes it.
func (h *AudioHeader) Bare() *AudioHeader {
	bare := *h
	bare.MarkFlag = 0
	bare.HeaderSize = AudioHeaderWords
	return &bare
}

// SetLengths updates the size fields for a mark table of markLen bytes and a payload of payloadLen bytes.
func (h *AudioHeader) SetLengths(markLen, payloadLen int) {
	h.HeaderSize = uint16((AudioHeaderSize + markLen) / 2)
	h.PayloadWords = uint32(payloadLen / 2)
	if markLen > 0 {
		h.MarkFlag = 1
	} else {
		h.MarkFlag = 0
	}
}
