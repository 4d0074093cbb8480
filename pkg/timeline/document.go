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
	"io"

	"sigs.k8s.io/yaml"
)

// Cue is one mouth shape of the viseme timeline, times in seconds
type Cue struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Value string  `json:"value"`
}

// Document is a viseme timeline as written by Rhubarb Lip Sync
type Document struct {
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	MouthCues []Cue                  `json:"mouthCues"`
}

// LoadDocument parses a viseme timeline in JSON or YAML
func LoadDocument(data []byte) (*Document, error) {
	doc := &Document{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func ReadDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return LoadDocument(data)
}
