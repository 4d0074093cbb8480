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

package mark

// Decoder walks the entries of a mark table lazily.
// It stops at the end of the words, at the end-of-table marker or at the first error.
type Decoder struct {
	words []uint16
	// entries start before end, they may run past it
	end   int
	pos   int
	entry Entry
	err   error
	done  bool
}

// NewDecoder returns a decoder over the event words, without the leading length word
func NewDecoder(words []uint16) *Decoder {
	return &Decoder{words: words, end: len(words)}
}

// Reset rewinds the decoder to the first entry
func (d *Decoder) Reset() {
	d.pos = 0
	d.entry = nil
	d.err = nil
	d.done = false
}

// Next advances to the next entry and reports whether there is one
func (d *Decoder) Next() bool {
	if d.done {
		return false
	}
	d.entry = nil
	left := len(d.words) - d.pos
	if left == 0 || d.pos >= d.end {
		d.done = true
		return false
	}
	first := d.words[d.pos]
	if first&longFlag == 0 {
		if left < 2 {
			return d.fail(2, left)
		}
		d.entry = Short{Duration: first, ID: d.words[d.pos+1]}
		d.pos += 2
		return true
	}
	if left < 2 {
		return d.fail(3, left)
	}
	duration := uint32(first&MaxShortDuration)<<16 | uint32(d.words[d.pos+1])
	if duration == EndOfTable {
		d.done = true
		return false
	}
	if left < 3 {
		return d.fail(3, left)
	}
	d.entry = Long{Duration: duration, ID: d.words[d.pos+2]}
	d.pos += 3
	return true
}

func (d *Decoder) fail(want, have int) bool {
	d.err = &ErrTruncatedEntry{Offset: d.pos, Want: want, Have: have}
	d.done = true
	return false
}

// Entry returns the current entry as encoded
func (d *Decoder) Entry() Entry {
	return d.entry
}

// Event returns the current entry as an event
func (d *Decoder) Event() Event {
	if d.entry == nil {
		return Event{}
	}
	return d.entry.Event()
}

// Offset is the word offset of the next entry
func (d *Decoder) Offset() int {
	return d.pos
}

func (d *Decoder) Err() error {
	return d.err
}

// DecodeAll decodes every event of the words
func DecodeAll(words []uint16) ([]Event, error) {
	var events []Event
	d := NewDecoder(words)
	for d.Next() {
		events = append(events, d.Event())
	}
	return events, d.Err()
}

// TableWords splits a full mark table into its event words.
// The length word counts the words following it, it is clamped to the words present.
func TableWords(table []uint16) []uint16 {
	if len(table) == 0 {
		return nil
	}
	n := int(table[0])
	if n > len(table)-1 {
		n = len(table) - 1
	}
	return table[1 : 1+n]
}

// ParseTable decodes a full mark table including its length word.
// Some tables count the length word itself. An entry crossing the length
// boundary is read from the rest of the table, so the end-of-table marker
// of such a padded table is still recognized.
func ParseTable(table []byte) ([]Event, error) {
	words := Words(table)
	if len(words) == 0 {
		return nil, nil
	}
	d := &Decoder{words: words[1:], end: len(TableWords(words))}
	var events []Event
	for d.Next() {
		events = append(events, d.Event())
	}
	return events, d.Err()
}
