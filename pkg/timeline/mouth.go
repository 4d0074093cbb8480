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

// Package timeline turns a viseme timeline and random eye animations into mark table events.
package timeline

import (
	"fmt"
	"math"

	"jinr.ru/greenlab/go-snxrom/pkg/log"
	"jinr.ru/greenlab/go-snxrom/pkg/mark"
)

// MouthState is the position of the mouth motor, its value is the mark identifier
type MouthState uint16

const (
	Closed = MouthState(mark.MouthClosed)
	Half   = MouthState(mark.MouthHalf)
	Full   = MouthState(mark.MouthFull)

	numMouthStates = 3
)

func (s MouthState) String() string {
	switch s {
	case Closed:
		return "closed"
	case Half:
		return "half"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("MouthState(%d)", uint16(s))
	}
}

// VisemeMap maps Rhubarb mouth shapes to mouth states
var VisemeMap = map[string]MouthState{
	"A": Closed, // P, B, M
	"F": Closed, // puckered
	"X": Closed, // idle

	"B": Half,
	"C": Half,
	"G": Half,
	"H": Half,

	"D": Full,
	"E": Full,
}

// LatencyTable holds how many ms before a cue the motor has to start moving,
// indexed by [from][to] mouth state.
type LatencyTable [numMouthStates][numMouthStates]uint32

var DefaultLatency = LatencyTable{
	Closed: {Closed: 0, Half: 200, Full: 200},
	Half:   {Closed: 200, Half: 0, Full: 150},
	Full:   {Closed: 200, Half: 0, Full: 0},
}

func (t *LatencyTable) Validate() error {
	for s := 0; s < numMouthStates; s++ {
		if t[s][s] != 0 {
			return &ErrInvariantViolation{What: fmt.Sprintf("latency from %s to itself must be 0, got %d", MouthState(s), t[s][s])}
		}
	}
	return nil
}

// Timed is an event at an absolute time in ms
type Timed struct {
	At uint32
	ID uint16
}

func secondsToMs(s float64) int64 {
	return int64(math.Round(s * 1000))
}

// MouthTransitions walks the cues starting closed at 0 and emits an event whenever the mouth
// state changes. Each transition starts early by the latency of the move so the mouth is in place
// when the audio gets there, but never before the previous transition.
func MouthTransitions(cues []Cue, latency LatencyTable) ([]Timed, error) {
	if err := latency.Validate(); err != nil {
		return nil, err
	}
	result := []Timed{{At: 0, ID: uint16(Closed)}}
	current := Closed
	var last int64
	for i, cue := range cues {
		state, ok := VisemeMap[cue.Value]
		if !ok {
			return nil, &ErrUnknownViseme{Index: i, Value: cue.Value}
		}
		if state == current {
			continue
		}
		at := secondsToMs(cue.Start) - int64(latency[current][state])
		if at < last {
			at = last
		}
		if at > math.MaxUint32 {
			return nil, &ErrInvariantViolation{What: fmt.Sprintf("cue %d at %.3fs is out of range", i, cue.Start)}
		}
		log.Debug("MouthTransitions: cue %d %q at %.3fs: %s -> %s at %d ms", i, cue.Value, cue.Start, current, state, at)
		result = append(result, Timed{At: uint32(at), ID: uint16(state)})
		last = at
		current = state
	}
	return result, nil
}
