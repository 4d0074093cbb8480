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
	ROMMetadataSize        = 32
	EyeAnimationSize       = 32
	VideoAudioSequenceSize = 32

	// ROMMetadataType is the leading type word of the metadata asset
	ROMMetadataType = 0
)

// ROMMetadata ... // 32 bytes
// Usually the first asset of a container, some containers (e.g. idle loops) have none.
type ROMMetadata struct {
	Type           uint16   `json:"-"`
	StoryID        uint16   `json:"storyId"`
	EyeAnimations  uint16   `json:"numberOfEyeAnimations"`
	EyeImages      uint16   `json:"numberOfEyeImages"`
	VideoSequences uint16   `json:"numberOfVideoSequences"`
	AudioBlocks    uint16   `json:"numberOfAudioBlocks"`
	FileSizeUpper  uint16   `json:"fileSizeUpper"`
	FileSizeLower  uint16   `json:"fileSizeLower"`
	Reserved       [16]byte `json:"-"`
}

func (m *ROMMetadata) Name() string { return "ROMMetadata" }

func (m *ROMMetadata) Size() int { return ROMMetadataSize }

// FileSize joins the two 16-bit halves of the file size
func (m *ROMMetadata) FileSize() uint32 {
	return uint32(m.FileSizeUpper)<<16 | uint32(m.FileSizeLower)
}

func (m *ROMMetadata) SetFileSize(size uint32) {
	m.FileSizeUpper = uint16(size >> 16)
	m.FileSizeLower = uint16(size & 0xffff)
}

func (m *ROMMetadata) Decode(buf []byte) {
	m.Type = binary.LittleEndian.Uint16(buf[0:2])
	m.StoryID = binary.LittleEndian.Uint16(buf[2:4])
	m.EyeAnimations = binary.LittleEndian.Uint16(buf[4:6])
	m.EyeImages = binary.LittleEndian.Uint16(buf[6:8])
	m.VideoSequences = binary.LittleEndian.Uint16(buf[8:10])
	m.AudioBlocks = binary.LittleEndian.Uint16(buf[10:12])
	m.FileSizeUpper = binary.LittleEndian.Uint16(buf[12:14])
	m.FileSizeLower = binary.LittleEndian.Uint16(buf[14:16])
	copy(m.Reserved[:], buf[16:32])
}

func (m *ROMMetadata) Serialize(buf []byte) {
	binary.LittleEndian.PutUint16(buf[0:2], m.Type)
	binary.LittleEndian.PutUint16(buf[2:4], m.StoryID)
	binary.LittleEndian.PutUint16(buf[4:6], m.EyeAnimations)
	binary.LittleEndian.PutUint16(buf[6:8], m.EyeImages)
	binary.LittleEndian.PutUint16(buf[8:10], m.VideoSequences)
	binary.LittleEndian.PutUint16(buf[10:12], m.AudioBlocks)
	binary.LittleEndian.PutUint16(buf[12:14], m.FileSizeUpper)
	binary.LittleEndian.PutUint16(buf[14:16], m.FileSizeLower)
	copy(buf[16:32], m.Reserved[:])
}

// EyeAnimation ... // 32 bytes
// Frames of the animation are the eye bitmaps StartEyeID .. StartEyeID+Frames-1,
// ids index the asset table.
type EyeAnimation struct {
	AnimationID uint16   `json:"animationId"`
	StartEyeID  uint16   `json:"startEyeId"`
	Frames      uint16   `json:"numberOfEyeFrames"`
	Reserved    [26]byte `json:"-"`
}

func (e *EyeAnimation) Name() string { return "EyeAnimation" }

func (e *EyeAnimation) Size() int { return EyeAnimationSize }

func (e *EyeAnimation) Decode(buf []byte) {
	e.AnimationID = binary.LittleEndian.Uint16(buf[0:2])
	e.StartEyeID = binary.LittleEndian.Uint16(buf[2:4])
	e.Frames = binary.LittleEndian.Uint16(buf[4:6])
	copy(e.Reserved[:], buf[6:32])
}

func (e *EyeAnimation) Serialize(buf []byte) {
	binary.LittleEndian.PutUint16(buf[0:2], e.AnimationID)
	binary.LittleEndian.PutUint16(buf[2:4], e.StartEyeID)
	binary.LittleEndian.PutUint16(buf[4:6], e.Frames)
	copy(buf[6:32], e.Reserved[:])
}

// VideoAudioSequence ... // 32 bytes
type VideoAudioSequence struct {
	VideoID      uint16   `json:"videoId"`
	StartAudioID uint16   `json:"startAudioId"`
	AudioBlocks  uint16   `json:"numberOfAudioBlocks"`
	Reserved     [26]byte `json:"-"`
}

func (v *VideoAudioSequence) Name() string { return "VideoAudioSequence" }

func (v *VideoAudioSequence) Size() int { return VideoAudioSequenceSize }

func (v *VideoAudioSequence) Decode(buf []byte) {
	v.VideoID = binary.LittleEndian.Uint16(buf[0:2])
	v.StartAudioID = binary.LittleEndian.Uint16(buf[2:4])
	v.AudioBlocks = binary.LittleEndian.Uint16(buf[4:6])
	copy(v.Reserved[:], buf[6:32])
}

func (v *VideoAudioSequence) Serialize(buf []byte) {
	binary.LittleEndian.PutUint16(buf[0:2], v.VideoID)
	binary.LittleEndian.PutUint16(buf[2:4], v.StartAudioID)
	binary.LittleEndian.PutUint16(buf[4:6], v.AudioBlocks)
	copy(buf[6:32], v.Reserved[:])
}
