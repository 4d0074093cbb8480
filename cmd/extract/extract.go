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

package extract

import (
	"fmt"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-snxrom/pkg/container"
	"jinr.ru/greenlab/go-snxrom/pkg/layers"
	"jinr.ru/greenlab/go-snxrom/pkg/log"
)

const (
	StoryFile    = "story.yaml"
	EyeFileFmt   = "eye%03d.png"
	AudioFileFmt = "audio%03d.au"
)

func writePNG(path string, bm *container.Bitmap) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, bm); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeAudio stores the audio asset without its marks, the way the encoder writes it
func writeAudio(path string, a *container.AudioAsset) error {
	au := &layers.AudioLayer{
		Header: *a.Header.Bare(),
		Audio:  a.Payload,
	}
	data, err := au.Bytes()
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}

func extract(c *container.Container, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	var written []string

	story := filepath.Join(dir, StoryFile)
	if err := ioutil.WriteFile(story, []byte(c.Summary().String()), 0644); err != nil {
		return nil, err
	}
	written = append(written, story)

	ids := make([]int, 0, len(c.EyeBitmaps))
	for id := range c.EyeBitmaps {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		path := filepath.Join(dir, fmt.Sprintf(EyeFileFmt, id))
		if err := writePNG(path, c.EyeBitmaps[id]); err != nil {
			return nil, err
		}
		log.Debug("Extracted eye bitmap %d to %s", id, path)
		written = append(written, path)
	}

	for _, a := range c.Audio {
		path := filepath.Join(dir, fmt.Sprintf(AudioFileFmt, a.Index))
		if err := writeAudio(path, a); err != nil {
			return nil, err
		}
		log.Debug("Extracted audio asset %d to %s", a.Index, path)
		written = append(written, path)
	}
	return written, nil
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract FILE DIR",
		Short: "Write the story layout, eye bitmaps and audio assets of a container to a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ioutil.ReadFile(args[0])
			if err != nil {
				return err
			}
			c, err := container.Parse(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			written, err := extract(c, args[1])
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	return cmd
}
