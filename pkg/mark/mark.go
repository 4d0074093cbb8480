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

// Package mark encodes and decodes the mark table of an audio asset.
//
// The mark table is a stream of (duration, identifier) events driving the mouth and eye
// motors while the audio plays. A duration up to 0x7fff ms takes one word, longer durations
// take two words with the high bit of the first word set. The identifier always takes one word.
package mark

import (
	"encoding/binary"
	"fmt"
)

const (
	// MaxShortDuration is the longest duration encoded in a single word
	MaxShortDuration = 0x7fff
	// EndOfTable is the extended duration marking the end of the events, the rest is padding
	EndOfTable = 0x7fffffff
	// MaxTableWords is the most event words the length word can count
	MaxTableWords = 0xffff

	longFlag = 0x8000
)

// Mouth states. Identifiers from FirstEyeAnimation up are eye animation ids.
const (
	MouthClosed uint16 = iota
	MouthHalf
	MouthFull

	FirstEyeAnimation uint16 = 3
)

// Event is one mark: wait Duration ms after the previous event, then apply ID
type Event struct {
	Duration uint32 `json:"duration"`
	ID       uint16 `json:"id"`
}

func (e Event) String() string {
	return fmt.Sprintf("(%d, %d)", e.Duration, e.ID)
}

// IsMouth reports whether the event moves the mouth rather than the eyes
func (e Event) IsMouth() bool {
	return e.ID < FirstEyeAnimation
}

// Entry is one encoded event, either Short or Long
type Entry interface {
	Event() Event
	Words() []uint16
}

// Short ... // 2 words
type Short struct {
	Duration uint16
	ID       uint16
}

func (s Short) Event() Event {
	return Event{Duration: uint32(s.Duration), ID: s.ID}
}

func (s Short) Words() []uint16 {
	return []uint16{s.Duration & MaxShortDuration, s.ID}
}

// Long ... // 3 words
type Long struct {
	Duration uint32
	ID       uint16
}

func (l Long) Event() Event {
	return Event{Duration: l.Duration, ID: l.ID}
}

func (l Long) Words() []uint16 {
	return []uint16{longFlag | uint16(l.Duration>>16), uint16(l.Duration & 0xffff), l.ID}
}

// EntryFor picks the shortest encoding of e
func EntryFor(e Event) (Entry, error) {
	if e.Duration >= EndOfTable {
		return nil, &ErrDurationRange{Duration: e.Duration}
	}
	if e.Duration <= MaxShortDuration {
		return Short{Duration: uint16(e.Duration), ID: e.ID}, nil
	}
	return Long{Duration: e.Duration, ID: e.ID}, nil
}

// Words converts little-endian bytes to words, an odd trailing byte is ignored
func Words(b []byte) []uint16 {
	words := make([]uint16, len(b)/2)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return words
}

// Bytes converts words to little-endian bytes
func Bytes(words []uint16) []byte {
	b := make([]byte, len(words)*2)
	for i, w := range words {
		binary.LittleEndian.PutUint16(b[2*i:], w)
	}
	return b
}
