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

type encodeOptions struct {
	totalWords int
}

// Option configures Encode
type Option func(*encodeOptions)

// WithPadding pads the table to totalWords words, the length word included.
// It keeps a table in the space allocated for the one it replaces.
func WithPadding(totalWords int) Option {
	return func(o *encodeOptions) {
		o.totalWords = totalWords
	}
}

// Encode builds a mark table: a length word followed by the encoded events.
func Encode(events []Event, opts ...Option) ([]uint16, error) {
	o := &encodeOptions{}
	for _, opt := range opts {
		opt(o)
	}

	entries := make([]Entry, 0, len(events))
	size := 1
	for _, e := range events {
		entry, err := EntryFor(e)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		size += len(entry.Words())
	}

	if o.totalWords > 0 {
		if size > o.totalWords {
			return nil, &ErrTableOverflow{Need: size, Have: o.totalWords}
		}
		// A single spare word can not hold a marker, widen one entry instead.
		if o.totalWords-size == 1 {
			if !widenLastShort(entries) {
				return nil, &ErrTableOverflow{Need: size + 2, Have: o.totalWords}
			}
			size++
		}
	}

	words := make([]uint16, 1, size)
	for _, entry := range entries {
		words = append(words, entry.Words()...)
	}
	if o.totalWords > 0 {
		words = pad(words, o.totalWords)
	}
	if len(words)-1 > MaxTableWords {
		return nil, &ErrTableOverflow{Need: len(words), Have: MaxTableWords + 1}
	}
	words[0] = uint16(len(words) - 1)
	return words, nil
}

func widenLastShort(entries []Entry) bool {
	for i := len(entries) - 1; i >= 0; i-- {
		if s, ok := entries[i].(Short); ok {
			entries[i] = Long{Duration: uint32(s.Duration), ID: s.ID}
			return true
		}
	}
	return false
}

// pad appends an end-of-table marker and zero words up to total.
// Callers guarantee the room left is zero or at least two words.
func pad(words []uint16, total int) []uint16 {
	room := total - len(words)
	if room == 0 {
		return words
	}
	marker := Long{Duration: EndOfTable}.Words()
	if room < len(marker) {
		marker = marker[:room]
	}
	words = append(words, marker...)
	for len(words) < total {
		words = append(words, 0)
	}
	return words
}

// EncodeBytes is Encode returning little-endian bytes
func EncodeBytes(events []Event, opts ...Option) ([]byte, error) {
	words, err := Encode(events, opts...)
	if err != nil {
		return nil, err
	}
	return Bytes(words), nil
}
