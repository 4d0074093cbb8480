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

// AssetAlign is the boundary every asset of a built container starts on
const AssetAlign = 256

// Story is the content of a container: metadata records, eye bitmaps and audio assets.
// Build lays it out as the metadata asset, then the eye bitmaps as assets 1..n, then the audio.
type Story struct {
	StoryID       uint16
	EyeAnimations []layers.EyeAnimation
	Sequences     []layers.VideoAudioSequence
	// EyeBitmaps are keyed by asset index
	EyeBitmaps map[int]*Bitmap
	Audio      []*layers.AudioLayer
}

// Story returns the content of the container. Reserved bytes are not carried over.
func (c *Container) Story() *Story {
	s := &Story{
		EyeAnimations: c.EyeAnimations,
		Sequences:     c.Sequences,
		EyeBitmaps:    c.EyeBitmaps,
	}
	if c.Metadata != nil {
		s.StoryID = c.Metadata.StoryID
	}
	for _, a := range c.Audio {
		s.Audio = append(s.Audio, &layers.AudioLayer{
			Header:    a.Header,
			MarkTable: a.MarkTable,
			Audio:     a.Payload,
		})
	}
	return s
}

func (s *Story) validate() error {
	for id := 1; id <= len(s.EyeBitmaps); id++ {
		if s.EyeBitmaps[id] == nil {
			return &ErrInvariantViolation{What: fmt.Sprintf("eye bitmaps must take assets 1..%d, %d is missing", len(s.EyeBitmaps), id)}
		}
	}
	for _, eye := range s.EyeAnimations {
		if eye.Frames == 0 {
			continue
		}
		if eye.StartEyeID < 1 || int(eye.StartEyeID)+int(eye.Frames)-1 > len(s.EyeBitmaps) {
			return &ErrInvariantViolation{What: fmt.Sprintf("eye animation %d references bitmaps %d..%d, story has %d",
				eye.AnimationID, eye.StartEyeID, int(eye.StartEyeID)+int(eye.Frames)-1, len(s.EyeBitmaps))}
		}
	}
	return nil
}

func (s *Story) metadata(fileSize uint32) []byte {
	meta := &layers.ROMMetadata{
		Type:           layers.ROMMetadataType,
		StoryID:        s.StoryID,
		EyeAnimations:  uint16(len(s.EyeAnimations)),
		EyeImages:      uint16(len(s.EyeBitmaps)),
		VideoSequences: uint16(len(s.Sequences)),
		AudioBlocks:    uint16(len(s.Audio)),
	}
	for i := range meta.Reserved {
		meta.Reserved[i] = layers.Filler
	}
	meta.SetFileSize(fileSize)
	buf := layers.Marshal(meta)
	for i := range s.EyeAnimations {
		buf = append(buf, layers.Marshal(&s.EyeAnimations[i])...)
	}
	for i := range s.Sequences {
		buf = append(buf, layers.Marshal(&s.Sequences[i])...)
	}
	return buf
}

func appendAligned(out []byte, align int, filler byte) []byte {
	for len(out)%align != 0 {
		out = append(out, filler)
	}
	return out
}

// Build lays the story out as a container. The metadata carries the final file size,
// the size fields of the audio headers are set from their mark tables and payloads.
func Build(s *Story) ([]byte, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	assets := [][]byte{s.metadata(0)}
	for id := 1; id <= len(s.EyeBitmaps); id++ {
		assets = append(assets, s.EyeBitmaps[id].Bytes())
	}
	for i, a := range s.Audio {
		audio := *a
		buf := gopacket.NewSerializeBuffer()
		if err := audio.SerializeTo(buf, gopacket.SerializeOptions{FixLengths: true}); err != nil {
			return nil, fmt.Errorf("audio %d: %w", i, err)
		}
		assets = append(assets, buf.Bytes())
	}

	n := len(assets)
	out := layers.Marshal(layers.NewHeader(uint32(n)))
	out = append(out, make([]byte, 4*n)...)
	offsets := make([]int, n)
	for i, a := range assets {
		out = appendAligned(out, AssetAlign, 0)
		offsets[i] = len(out)
		binary.LittleEndian.PutUint32(out[layers.HeaderSize+4*i:], uint32(len(out)))
		out = append(out, a...)
	}
	out = appendAligned(out, layers.SectorSize, layers.Filler)
	copy(out[offsets[0]:], s.metadata(uint32(len(out))))

	log.Debug("Build: %d assets (%d eye bitmaps, %d audio), %d bytes", n, len(s.EyeBitmaps), len(s.Audio), len(out))
	return out, nil
}
