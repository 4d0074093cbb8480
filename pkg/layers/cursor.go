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

// Record is a fixed-size little-endian structure of the container.
// Decode and Serialize may assume the buffer holds at least Size bytes,
// bounds are checked by Cursor before they are called.
type Record interface {
	Name() string
	Size() int
	Decode(buf []byte)
	Serialize(buf []byte)
}

// Cursor reads records from a byte slice, checking bounds before every read.
type Cursor struct {
	buf []byte
	off int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// NewCursorAt returns a cursor positioned at off.
func NewCursorAt(buf []byte, off int) *Cursor {
	return &Cursor{buf: buf, off: off}
}

func (c *Cursor) Offset() int {
	return c.off
}

func (c *Cursor) Remaining() int {
	if c.off >= len(c.buf) {
		return 0
	}
	return len(c.buf) - c.off
}

// Next returns the next n bytes and advances the cursor.
// The returned slice aliases the underlying buffer.
func (c *Cursor) Next(name string, n int) ([]byte, error) {
	if n < 0 || c.off < 0 || c.off > len(c.buf) || n > len(c.buf)-c.off {
		return nil, &ErrLayout{
			Record:    name,
			Offset:    c.off,
			Size:      n,
			Remaining: c.Remaining(),
		}
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(name string, n int) error {
	_, err := c.Next(name, n)
	return err
}

// Read decodes rec at the cursor and advances past it.
func (c *Cursor) Read(rec Record) error {
	b, err := c.Next(rec.Name(), rec.Size())
	if err != nil {
		return err
	}
	rec.Decode(b)
	return nil
}

// Uint16s reads n little-endian words.
func (c *Cursor) Uint16s(name string, n int) ([]uint16, error) {
	b, err := c.Next(name, n*2)
	if err != nil {
		return nil, err
	}
	words := make([]uint16, n)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return words, nil
}

// Uint32s reads n little-endian 32-bit words.
func (c *Cursor) Uint32s(name string, n int) ([]uint32, error) {
	b, err := c.Next(name, n*4)
	if err != nil {
		return nil, err
	}
	words := make([]uint32, n)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
	return words, nil
}

// ReadAt decodes rec at byte offset off of buf.
func ReadAt(buf []byte, off int, rec Record) error {
	return NewCursorAt(buf, off).Read(rec)
}

// ReadAfter decodes rec immediately after prev, which was read at prevOff.
func ReadAfter(buf []byte, prevOff int, prev, rec Record) error {
	return ReadAt(buf, prevOff+prev.Size(), rec)
}

// ReadRun decodes n back-to-back records of the same type starting at the cursor.
func ReadRun[T any, P interface {
	*T
	Record
}](c *Cursor, n int) ([]T, error) {
	result := make([]T, n)
	for i := range result {
		if err := c.Read(P(&result[i])); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Marshal serializes rec into a freshly allocated buffer.
func Marshal(rec Record) []byte {
	buf := make([]byte, rec.Size())
	rec.Serialize(buf)
	return buf
}
