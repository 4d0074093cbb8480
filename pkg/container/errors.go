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
	"fmt"
)

// ErrFormat returned when the container is not an SNXROM file or its layout is inconsistent
type ErrFormat struct {
	What string
}

func (e *ErrFormat) Error() string {
	return fmt.Sprintf("Invalid SNXROM container: %s", e.What)
}

// ErrTruncatedAsset returned when an asset or a record inside it runs past the end of the buffer
type ErrTruncatedAsset struct {
	Asset  int
	Offset int
	Want   int
	Have   int
}

func (e *ErrTruncatedAsset) Error() string {
	return fmt.Sprintf("Asset %d is truncated at offset %#x: want %d bytes, have %d", e.Asset, e.Offset, e.Want, e.Have)
}

// ErrInvariantViolation returned when the pieces of a rebuilt asset are inconsistent
type ErrInvariantViolation struct {
	What string
}

func (e *ErrInvariantViolation) Error() string {
	return fmt.Sprintf("Invariant violation: %s", e.What)
}

// ErrNoAudio returned when the container holds no audio asset
type ErrNoAudio struct{}

func (e *ErrNoAudio) Error() string {
	return "No AU asset found in container"
}
