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
	"math/rand"
	"sort"

	"jinr.ru/greenlab/go-snxrom/pkg/log"
	"jinr.ru/greenlab/go-snxrom/pkg/mark"
)

// Merge orders mouth and eye events by time. Events at the same time keep mouth before eyes.
func Merge(mouth, eyes []Timed) []Timed {
	merged := make([]Timed, 0, len(mouth)+len(eyes))
	merged = append(merged, mouth...)
	merged = append(merged, eyes...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].At < merged[j].At
	})
	return merged
}

// Delta turns absolute times into the time since the previous event
func Delta(events []Timed) ([]mark.Event, error) {
	result := make([]mark.Event, 0, len(events))
	var last uint32
	for i, e := range events {
		if e.At < last {
			return nil, &ErrInvariantViolation{What: fmt.Sprintf("event %d at %d ms precedes the previous one at %d ms", i, e.At, last)}
		}
		result = append(result, mark.Event{Duration: e.At - last, ID: e.ID})
		last = e.At
	}
	return result, nil
}

type Options struct {
	Latency LatencyTable
	// RandomEyes adds the random eye track, it needs Rand and DurationMs
	RandomEyes bool
	Eyes       EyeOptions
	DurationMs uint32
	Rand       *rand.Rand
}

func DefaultOptions() Options {
	return Options{
		Latency:    DefaultLatency,
		RandomEyes: true,
		Eyes:       DefaultEyeOptions(),
	}
}

// Compile builds the mark table events for a viseme timeline
func Compile(doc *Document, opts Options) ([]mark.Event, error) {
	mouth, err := MouthTransitions(doc.MouthCues, opts.Latency)
	if err != nil {
		return nil, err
	}
	var eyes []Timed
	if opts.RandomEyes {
		eyes, err = EyeTrack(opts.DurationMs, opts.Eyes, opts.Rand)
		if err != nil {
			return nil, err
		}
	}
	log.Debug("Compile: %d mouth events, %d eye events over %d ms", len(mouth), len(eyes), opts.DurationMs)
	return Delta(Merge(mouth, eyes))
}
