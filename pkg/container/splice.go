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

package container

import (
	"encoding/binary"
	"fmt"

	"github.com/google/gopacket"

	"jinr.ru/greenlab/go-snxrom/pkg/layers"
	"jinr.ru/greenlab/go-snxrom/pkg/log"
)

// SpliceAudioAsset replaces asset assetIndex with a new audio asset built from header, mark table
// bytes and payload. Every asset after assetIndex is dropped, the patched asset becomes the last one.
// The size fields and mark flag of the header are set from the pieces, the asset table is rewritten
// to the new count and the result is padded with 0xff to a sector boundary.
func SpliceAudioAsset(c *Container, assetIndex int, header layers.AudioHeader, markTable, payload []byte) ([]byte, error) {
	if assetIndex < 0 || assetIndex >= len(c.Assets) {
		return nil, &ErrInvariantViolation{What: fmt.Sprintf("asset index %d out of range, container has %d assets", assetIndex, len(c.Assets))}
	}
	if len(markTable)%2 != 0 {
		return nil, &ErrInvariantViolation{What: fmt.Sprintf("mark table length %d is not a whole number of words", len(markTable))}
	}
	if len(payload)%2 != 0 {
		return nil, &ErrInvariantViolation{What: fmt.Sprintf("payload length %d is not a whole number of words", len(payload))}
	}
	if (layers.AudioHeaderSize+len(markTable))/2 > 0xffff {
		return nil, &ErrInvariantViolation{What: fmt.Sprintf("mark table of %d bytes does not fit the header size field", len(markTable))}
	}

	offset := int(c.Assets[assetIndex].Offset)
	audio := &layers.AudioLayer{
		Header:    header,
		MarkTable: markTable,
		Audio:     payload,
	}
	log.Debug("SpliceAudioAsset: asset %d at %#x, mark table %d bytes, payload %d bytes", assetIndex, offset, len(markTable), len(payload))

	buf := gopacket.NewSerializeBuffer()
	prefix, err := buf.AppendBytes(offset)
	if err != nil {
		return nil, err
	}
	copy(prefix, c.raw[:offset])
	if err := audio.SerializeTo(buf, gopacket.SerializeOptions{FixLengths: true}); err != nil {
		return nil, err
	}
	if err := padSector(buf); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	if err := RewriteAssetTable(out, assetIndex+1); err != nil {
		return nil, err
	}
	return out, nil
}

func padSector(buf gopacket.SerializeBuffer) error {
	rem := len(buf.Bytes()) % layers.SectorSize
	if rem == 0 {
		return nil
	}
	fill, err := buf.AppendBytes(layers.SectorSize - rem)
	if err != nil {
		return err
	}
	for i := range fill {
		fill[i] = layers.Filler
	}
	return nil
}

// RewriteAssetTable shrinks the asset table of an encoded container to count entries.
// The table keeps its place so assets do not move, dropped slots are filled with 0xff.
func RewriteAssetTable(data []byte, count int) error {
	header := &layers.Header{}
	if err := layers.ReadAt(data, 0, header); err != nil {
		return &ErrFormat{What: err.Error()}
	}
	old := int(header.AssetCount)
	if count < 0 || count > old {
		return &ErrInvariantViolation{What: fmt.Sprintf("can not grow asset table from %d to %d entries in place", old, count)}
	}
	tableEnd := layers.HeaderSize + 4*old
	if tableEnd > len(data) {
		return &ErrFormat{What: fmt.Sprintf("asset table of %d entries runs past the end of %d bytes", old, len(data))}
	}
	binary.LittleEndian.PutUint32(data[layers.AssetCountOffset:], uint32(count))
	for i := layers.HeaderSize + 4*count; i < tableEnd; i++ {
		data[i] = layers.Filler
	}
	return nil
}
