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
	"bytes"
	"encoding/binary"
)

const (
	// HeaderSize is the size of the fixed preamble, the asset table follows it
	HeaderSize = 512
	// HeaderReservedWord is the value of the reserved word at offset 40 in headers we create
	HeaderReservedWord = 0x400
	// SectorSize is the alignment of patched containers
	SectorSize = 512
	// Filler pads reserved regions and sectors
	Filler = 0xff
)

// Magic is "SNXROM" stored as six 16-bit characters.
var Magic = [12]byte{'S', 0, 'N', 0, 'X', 0, 'R', 0, 'O', 0, 'M', 0}

// Header ... // 512 bytes
type Header struct {
	Magic      [12]byte
	Reserved1  [28]byte
	Reserved2  uint32
	AssetCount uint32
	Reserved3  [464]byte
}

// NewHeader returns a header for a container holding n assets.
func NewHeader(n uint32) *Header {
	h := &Header{
		Magic:      Magic,
		Reserved2:  HeaderReservedWord,
		AssetCount: n,
	}
	for i := range h.Reserved1 {
		h.Reserved1[i] = Filler
	}
	for i := range h.Reserved3 {
		h.Reserved3[i] = Filler
	}
	return h
}

func (h *Header) Name() string { return "Header" }

func (h *Header) Size() int { return HeaderSize }

func (h *Header) ValidMagic() bool {
	return bytes.Equal(h.Magic[:], Magic[:])
}

func (h *Header) Decode(buf []byte) {
	copy(h.Magic[:], buf[0:12])
	copy(h.Reserved1[:], buf[12:40])
	h.Reserved2 = binary.LittleEndian.Uint32(buf[40:44])
	h.AssetCount = binary.LittleEndian.Uint32(buf[44:48])
	copy(h.Reserved3[:], buf[48:512])
}

func (h *Header) Serialize(buf []byte) {
	copy(buf[0:12], h.Magic[:])
	copy(buf[12:40], h.Reserved1[:])
	binary.LittleEndian.PutUint32(buf[40:44], h.Reserved2)
	binary.LittleEndian.PutUint32(buf[44:48], h.AssetCount)
	copy(buf[48:512], h.Reserved3[:])
}

// AssetCountOffset is where the asset count lives inside the header
const AssetCountOffset = 44
