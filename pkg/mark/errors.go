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

import (
	"fmt"
)

// ErrTruncatedEntry returned when the words run out in the middle of an entry
type ErrTruncatedEntry struct {
	Offset int // in words
	Want   int
	Have   int
}

func (e *ErrTruncatedEntry) Error() string {
	return fmt.Sprintf("Mark table entry at word %d is truncated: want %d words, have %d", e.Offset, e.Want, e.Have)
}

// ErrTableOverflow returned when the events do not fit into the requested table size
type ErrTableOverflow struct {
	Need int
	Have int
}

func (e *ErrTableOverflow) Error() string {
	return fmt.Sprintf("Mark table needs %d words, only %d allocated", e.Need, e.Have)
}

// ErrDurationRange returned for durations the extended encoding can not hold
type ErrDurationRange struct {
	Duration uint32
}

func (e *ErrDurationRange) Error() string {
	return fmt.Sprintf("Mark duration %d ms out of range, must be below %d", e.Duration, uint32(EndOfTable))
}
