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

package timeline

import (
	"fmt"
)

// ErrUnknownViseme returned when a cue carries a viseme code missing from the mapping table
type ErrUnknownViseme struct {
	Index int
	Value string
}

func (e *ErrUnknownViseme) Error() string {
	return fmt.Sprintf("Unknown viseme %q in cue %d", e.Value, e.Index)
}

// ErrInvariantViolation returned when the compiled timeline or its inputs break an invariant
type ErrInvariantViolation struct {
	What string
}

func (e *ErrInvariantViolation) Error() string {
	return fmt.Sprintf("Timeline invariant violation: %s", e.What)
}
