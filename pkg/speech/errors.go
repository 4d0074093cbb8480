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

package speech

import (
	"fmt"
)

// ErrWAVFormat returned when the WAV input is not 16-bit mono PCM at a supported rate
type ErrWAVFormat struct {
	What string
}

func (e *ErrWAVFormat) Error() string {
	return fmt.Sprintf("Unsupported WAV input: %s", e.What)
}

// ErrEncoder returned when the external encoder fails or produces an unusable payload
type ErrEncoder struct {
	Command string
	Stderr  string
	Err     error
}

func (e *ErrEncoder) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("Encoder %s failed: %s: %s", e.Command, e.Err, e.Stderr)
	}
	return fmt.Sprintf("Encoder %s failed: %s", e.Command, e.Err)
}

func (e *ErrEncoder) Unwrap() error {
	return e.Err
}
