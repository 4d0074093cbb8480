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
	"fmt"
)

// ErrLayout returned when a record does not fit into the bytes left in the buffer
type ErrLayout struct {
	Record    string
	Offset    int
	Size      int
	Remaining int
}

func (e *ErrLayout) Error() string {
	return fmt.Sprintf("Record %s does not fit at offset %#x: want %d bytes, have %d", e.Record, e.Offset, e.Size, e.Remaining)
}

// ErrAudioTag returned when an audio asset does not start with the AU tag
type ErrAudioTag struct {
	Tag [2]byte
}

func (e *ErrAudioTag) Error() string {
	return fmt.Sprintf("Audio asset must start with %q, got %q", AudioTag[:], e.Tag[:])
}

// ErrHeaderSize returned when the header size field of an audio header points inside the header itself
type ErrHeaderSize struct {
	HeaderSize uint16
}

func (e *ErrHeaderSize) Error() string {
	return fmt.Sprintf("Audio header size %d words is smaller than the header (%d words)", e.HeaderSize, AudioHeaderSize/2)
}
