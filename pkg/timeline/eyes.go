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
	"math"
	"math/rand"

	"jinr.ru/greenlab/go-snxrom/pkg/mark"
)

// Distribution draws the time between two eye animations in seconds
type Distribution interface {
	Gap(r *rand.Rand) float64
}

type Gaussian struct {
	Median float64
	StdDev float64
}

func (g Gaussian) Gap(r *rand.Rand) float64 {
	return r.NormFloat64()*g.StdDev + g.Median
}

type Uniform struct {
	Min float64
	Max float64
}

func (u Uniform) Gap(r *rand.Rand) float64 {
	return u.Min + r.Float64()*(u.Max-u.Min)
}

type EyeOptions struct {
	// Intro is played at the start of the audio
	Intro uint16
	// IDs are the animations picked from at random
	IDs []uint16
	Gap Distribution
}

func DefaultEyeOptions() EyeOptions {
	return EyeOptions{
		Intro: 11,
		IDs:   []uint16{11, 12, 13, 14},
		Gap:   Gaussian{Median: 30, StdDev: 6},
	}
}

func (o *EyeOptions) Validate() error {
	if len(o.IDs) == 0 {
		return &ErrInvariantViolation{What: "no eye animations to pick from"}
	}
	if o.Gap == nil {
		return &ErrInvariantViolation{What: "no eye animation gap distribution"}
	}
	for _, id := range append([]uint16{o.Intro}, o.IDs...) {
		if id < mark.FirstEyeAnimation {
			return &ErrInvariantViolation{What: fmt.Sprintf("eye animation id %d collides with mouth states", id)}
		}
	}
	return nil
}

// EyeTrack plays the intro animation at 0, then random animations separated by random gaps
// of at least 1 ms until durationMs is reached.
func EyeTrack(durationMs uint32, opts EyeOptions, r *rand.Rand) ([]Timed, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, &ErrInvariantViolation{What: "eye track needs a random source"}
	}
	result := []Timed{{At: 0, ID: opts.Intro}}
	var now float64
	for {
		gap := math.Floor(opts.Gap.Gap(r) * 1000)
		if gap < 1 || math.IsNaN(gap) {
			gap = 1
		}
		now += gap
		if now >= float64(durationMs) {
			break
		}
		result = append(result, Timed{At: uint32(now), ID: opts.IDs[r.Intn(len(opts.IDs))]})
	}
	return result, nil
}
