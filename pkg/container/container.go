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

// Package container parses and rewrites SNXROM containers.
//
// A container is a 512-byte header, a table of absolute asset offsets and the assets.
// Assets carry no length of their own: the size of an asset is the distance to the next
// offset, or to the end of the file for the last one.
package container

import (
	"errors"
	"fmt"

	"jinr.ru/greenlab/go-snxrom/pkg/layers"
	"jinr.ru/greenlab/go-snxrom/pkg/log"
	"jinr.ru/greenlab/go-snxrom/pkg/mark"
)

// Kind classifies an asset by its leading type word
type Kind int

const (
	KindUnknown Kind = iota
	KindMetadata
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindMetadata:
		return "metadata"
	case KindAudio:
		return "audio"
	default:
		return "data"
	}
}

// Asset is one entry of the asset table
type Asset struct {
	Index  int
	Offset uint32
	Size   int
	Tag    uint16
	Kind
}

// End is the offset just past the asset
func (a *Asset) End() int {
	return int(a.Offset) + a.Size
}

// AudioAsset is a decoded audio asset
type AudioAsset struct {
	*Asset
	Header layers.AudioHeader
	// MarkTable holds the raw mark table bytes including the length word
	MarkTable []byte
	Marks     []mark.Event
	Payload   []byte
}

// Container is a parsed SNXROM file. All views are copies, the source buffer is not retained
// except for the raw bytes needed to rebuild the file.
type Container struct {
	Header        layers.Header
	Offsets       []uint32
	Assets        []*Asset
	Metadata      *layers.ROMMetadata
	EyeAnimations []layers.EyeAnimation
	Sequences     []layers.VideoAudioSequence
	EyeBitmaps    map[int]*Bitmap
	Audio         []*AudioAsset
	raw           []byte
}

// Len is the total length of the parsed file
func (c *Container) Len() int {
	return len(c.raw)
}

// Raw returns the bytes of the parsed file
func (c *Container) Raw() []byte {
	return c.raw
}

// AssetBytes returns the bytes of asset i
func (c *Container) AssetBytes(i int) []byte {
	a := c.Assets[i]
	return c.raw[a.Offset:a.End()]
}

// FirstAudio returns the first audio asset in table order
func (c *Container) FirstAudio() (*AudioAsset, error) {
	if len(c.Audio) == 0 {
		return nil, &ErrNoAudio{}
	}
	return c.Audio[0], nil
}

// AssetSizes derives asset sizes from the offsets and the total length
func AssetSizes(offsets []uint32, total int) []int {
	sizes := make([]int, len(offsets))
	for i, o := range offsets {
		end := total
		if i+1 < len(offsets) {
			end = int(offsets[i+1])
		}
		sizes[i] = end - int(o)
	}
	return sizes
}

// Parse decodes a container. The buffer is copied.
func Parse(data []byte) (*Container, error) {
	c := &Container{
		raw:        append([]byte(nil), data...),
		EyeBitmaps: make(map[int]*Bitmap),
	}
	if err := c.parseHeader(); err != nil {
		return nil, err
	}
	if err := c.parseAssets(); err != nil {
		return nil, err
	}
	if c.Metadata != nil {
		if err := c.parseMetadataRecords(); err != nil {
			return nil, err
		}
		if err := c.parseEyeBitmaps(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) parseHeader() error {
	if err := layers.ReadAt(c.raw, 0, &c.Header); err != nil {
		return &ErrFormat{What: err.Error()}
	}
	if !c.Header.ValidMagic() {
		return &ErrFormat{What: fmt.Sprintf("bad magic % x", c.Header.Magic[:])}
	}
	log.Debug("Parse: asset count: %d", c.Header.AssetCount)

	cur := layers.NewCursorAt(c.raw, layers.HeaderSize)
	offsets, err := cur.Uint32s("AssetTable", int(c.Header.AssetCount))
	if err != nil {
		return &ErrFormat{What: err.Error()}
	}
	for i, o := range offsets {
		// the file must reach every offset
		if int(o) > len(c.raw) {
			return &ErrTruncatedAsset{Asset: i, Offset: int(o), Want: int(o), Have: len(c.raw)}
		}
		if i > 0 && o <= offsets[i-1] {
			return &ErrFormat{What: fmt.Sprintf("asset offsets not ascending: asset %d at %#x follows %#x", i, o, offsets[i-1])}
		}
	}
	c.Offsets = offsets
	return nil
}

func (c *Container) parseAssets() error {
	sizes := AssetSizes(c.Offsets, len(c.raw))
	for i, o := range c.Offsets {
		a := &Asset{Index: i, Offset: o, Size: sizes[i]}
		if a.Size >= 2 {
			a.Tag = uint16(c.raw[o]) | uint16(c.raw[o+1])<<8
			switch {
			case a.Tag == layers.ROMMetadataType && i == 0:
				a.Kind = KindMetadata
			case a.Tag == layers.AudioTypeWord:
				a.Kind = KindAudio
			}
		}
		log.Debug("Parse: asset %d kind %s tag %#x offset %#x size %#x", i, a.Kind, a.Tag, a.Offset, a.Size)
		c.Assets = append(c.Assets, a)

		switch a.Kind {
		case KindMetadata:
			meta := &layers.ROMMetadata{}
			if err := layers.ReadAt(c.AssetBytes(i), 0, meta); err != nil {
				return truncated(a, err)
			}
			c.Metadata = meta
		case KindAudio:
			audio, err := c.parseAudio(a)
			if err != nil {
				return err
			}
			c.Audio = append(c.Audio, audio)
		}
	}
	return nil
}

func (c *Container) parseAudio(a *Asset) (*AudioAsset, error) {
	l, err := layers.ParseAudioFile(c.AssetBytes(a.Index))
	if err != nil {
		var layoutErr *layers.ErrLayout
		if errors.As(err, &layoutErr) {
			return nil, truncated(a, err)
		}
		return nil, &ErrFormat{What: fmt.Sprintf("asset %d: %s", a.Index, err)}
	}
	marks, err := mark.ParseTable(l.MarkTable)
	if err != nil {
		return nil, &ErrFormat{What: fmt.Sprintf("asset %d mark table: %s", a.Index, err)}
	}
	log.Debug("Parse: asset %d: %d marks, %d payload bytes", a.Index, len(marks), len(l.Audio))
	return &AudioAsset{
		Asset:     a,
		Header:    l.Header,
		MarkTable: l.MarkTable,
		Marks:     marks,
		Payload:   l.Audio,
	}, nil
}

// parseMetadataRecords reads the eye animation and sequence records packed right after the metadata
func (c *Container) parseMetadataRecords() error {
	meta := c.Assets[0]
	cur := layers.NewCursorAt(c.AssetBytes(0), layers.ROMMetadataSize)
	eyes, err := layers.ReadRun[layers.EyeAnimation](cur, int(c.Metadata.EyeAnimations))
	if err != nil {
		return truncated(meta, err)
	}
	seqs, err := layers.ReadRun[layers.VideoAudioSequence](cur, int(c.Metadata.VideoSequences))
	if err != nil {
		return truncated(meta, err)
	}
	c.EyeAnimations = eyes
	c.Sequences = seqs
	return nil
}

func (c *Container) parseEyeBitmaps() error {
	for _, eye := range c.EyeAnimations {
		for id := int(eye.StartEyeID); id < int(eye.StartEyeID)+int(eye.Frames); id++ {
			if _, ok := c.EyeBitmaps[id]; ok {
				continue
			}
			if id >= len(c.Assets) {
				return &ErrFormat{What: fmt.Sprintf("eye animation %d references bitmap %d, table has %d assets", eye.AnimationID, id, len(c.Assets))}
			}
			a := c.Assets[id]
			if a.Size < EyeBitmapSize {
				return &ErrTruncatedAsset{Asset: id, Offset: int(a.Offset), Want: EyeBitmapSize, Have: a.Size}
			}
			c.EyeBitmaps[id] = DecodeBitmap(c.AssetBytes(id))
		}
	}
	return nil
}

func truncated(a *Asset, err error) error {
	var layoutErr *layers.ErrLayout
	if errors.As(err, &layoutErr) {
		return &ErrTruncatedAsset{
			Asset:  a.Index,
			Offset: int(a.Offset) + layoutErr.Offset,
			Want:   layoutErr.Size,
			Have:   layoutErr.Remaining,
		}
	}
	return err
}
