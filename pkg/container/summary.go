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
	"sort"

	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-snxrom/pkg/layers"
	"jinr.ru/greenlab/go-snxrom/pkg/log"
	"jinr.ru/greenlab/go-snxrom/pkg/mark"
)

type AssetSummary struct {
	Index  int    `json:"index"`
	Kind   string `json:"kind"`
	Offset uint32 `json:"offset"`
	Size   int    `json:"size"`
}

type AudioSummary struct {
	Asset  int                `json:"asset"`
	Header layers.AudioHeader `json:"header"`
	Marks  []mark.Event       `json:"marks,omitempty"`
}

// Summary describes a container for listings and the catalog
type Summary struct {
	Size                int                         `json:"size"`
	Metadata            *layers.ROMMetadata         `json:"metadata,omitempty"`
	EyeAnimations       []layers.EyeAnimation       `json:"eyeAnimations,omitempty"`
	VideoAudioSequences []layers.VideoAudioSequence `json:"videoAudioSequences,omitempty"`
	EyeBitmaps          []int                       `json:"eyeBitmaps,omitempty"`
	Assets              []AssetSummary              `json:"assets"`
	Audio               []AudioSummary              `json:"audio,omitempty"`
}

func (c *Container) Summary() *Summary {
	s := &Summary{
		Size:                c.Len(),
		Metadata:            c.Metadata,
		EyeAnimations:       c.EyeAnimations,
		VideoAudioSequences: c.Sequences,
	}
	for id := range c.EyeBitmaps {
		s.EyeBitmaps = append(s.EyeBitmaps, id)
	}
	sort.Ints(s.EyeBitmaps)
	for _, a := range c.Assets {
		s.Assets = append(s.Assets, AssetSummary{
			Index:  a.Index,
			Kind:   a.Kind.String(),
			Offset: a.Offset,
			Size:   a.Size,
		})
	}
	for _, a := range c.Audio {
		s.Audio = append(s.Audio, AudioSummary{
			Asset:  a.Index,
			Header: a.Header,
			Marks:  a.Marks,
		})
	}
	return s
}

func (s *Summary) String() string {
	result, err := yaml.Marshal(s)
	if err != nil {
		log.Info("Error occured while marshaling container summary, %s", err)
		return ""
	}
	return fmt.Sprintf("---\n%s", string(result))
}
