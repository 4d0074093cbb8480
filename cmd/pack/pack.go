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

package pack

import (
	"fmt"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-snxrom/cmd/extract"
	"jinr.ru/greenlab/go-snxrom/pkg/container"
	"jinr.ru/greenlab/go-snxrom/pkg/layers"
	"jinr.ru/greenlab/go-snxrom/pkg/log"
	"jinr.ru/greenlab/go-snxrom/pkg/mark"
)

func readBitmap(path string) (*container.Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if b := img.Bounds(); b.Dx() != container.EyeWidth || b.Dy() != container.EyeHeight {
		return nil, fmt.Errorf("%s: image is %dx%d, want %dx%d", path, b.Dx(), b.Dy(), container.EyeWidth, container.EyeHeight)
	}
	return container.BitmapFromImage(img), nil
}

// readAudio reads an audio asset written by extract and gives it the marks of the story
func readAudio(path string, marks []mark.Event) (*layers.AudioLayer, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	audio, err := layers.ParseAudioFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(marks) > 0 {
		if audio.MarkTable, err = mark.EncodeBytes(marks); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return audio, nil
}

// readStory loads a directory written by extract
func readStory(dir string) (*container.Story, error) {
	data, err := ioutil.ReadFile(filepath.Join(dir, extract.StoryFile))
	if err != nil {
		return nil, err
	}
	summary := &container.Summary{}
	if err := yaml.Unmarshal(data, summary); err != nil {
		return nil, fmt.Errorf("%s: %w", extract.StoryFile, err)
	}

	story := &container.Story{
		EyeAnimations: summary.EyeAnimations,
		Sequences:     summary.VideoAudioSequences,
		EyeBitmaps:    map[int]*container.Bitmap{},
	}
	if summary.Metadata != nil {
		story.StoryID = summary.Metadata.StoryID
	}
	for _, id := range summary.EyeBitmaps {
		bm, err := readBitmap(filepath.Join(dir, fmt.Sprintf(extract.EyeFileFmt, id)))
		if err != nil {
			return nil, err
		}
		story.EyeBitmaps[id] = bm
	}
	for _, a := range summary.Audio {
		audio, err := readAudio(filepath.Join(dir, fmt.Sprintf(extract.AudioFileFmt, a.Asset)), a.Marks)
		if err != nil {
			return nil, err
		}
		story.Audio = append(story.Audio, audio)
	}
	log.Info("Read story %d: %d eye animations, %d eye bitmaps, %d audio assets",
		story.StoryID, len(story.EyeAnimations), len(story.EyeBitmaps), len(story.Audio))
	return story, nil
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack DIR FILE",
		Short: "Build a container from a directory written by extract",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			story, err := readStory(args[0])
			if err != nil {
				return err
			}
			out, err := container.Build(story)
			if err != nil {
				return err
			}
			if err := ioutil.WriteFile(args[1], out, 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Packed %d bytes to %s\n", len(out), args[1])
			return nil
		},
	}
	return cmd
}
