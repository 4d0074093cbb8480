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

package patch

import (
	"fmt"
	"io/ioutil"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-snxrom/pkg/config"
	"jinr.ru/greenlab/go-snxrom/pkg/log"
	"jinr.ru/greenlab/go-snxrom/pkg/patch"
	"jinr.ru/greenlab/go-snxrom/pkg/speech"
	"jinr.ru/greenlab/go-snxrom/pkg/timeline"
)

const (
	AUOptionName               = "au"
	WAVOptionName              = "wav"
	RhubarbJSONOptionName      = "rhubarb-json"
	NoMouthOptionName          = "no-mouth"
	RandomEyesOptionName       = "random-eyes"
	RandomEyesMedianOptionName = "random-eyes-median"
	RandomEyesStdDevOptionName = "random-eyes-std-dev"
	SeedOptionName             = "seed"
	PadMarkTableOptionName     = "pad-mark-table"
	DumpAUOptionName           = "dump-au"
	EncoderOptionName          = "encoder"
)

const (
	patchExample = `
Replace the speech and lip sync of a story
# go-snxrom patch --wav story.wav --rhubarb-json story.json story.bin patched.bin

Reuse an already encoded audio asset and keep its marks
# go-snxrom patch --au story.au story.bin patched.bin
`
)

type patchFlags struct {
	au, wav, rhubarbJSON, dumpAU, encoder string
	noMouth, randomEyes, padMarkTable     bool
	median, stdDev                        float64
	seed                                  int64
}

func timelineOptions(cmd *cobra.Command, cfg *config.Config, f *patchFlags) (timeline.Options, error) {
	opts, err := cfg.Timeline.Options()
	if err != nil {
		return opts, err
	}
	if cmd.Flags().Changed(RandomEyesOptionName) {
		opts.RandomEyes = f.randomEyes
	}
	medianChanged := cmd.Flags().Changed(RandomEyesMedianOptionName)
	stdDevChanged := cmd.Flags().Changed(RandomEyesStdDevOptionName)
	if medianChanged || stdDevChanged {
		gap, ok := opts.Eyes.Gap.(timeline.Gaussian)
		if !ok {
			gap = timeline.Gaussian{Median: config.DefaultEyeMedian, StdDev: config.DefaultEyeStdDev}
		}
		if medianChanged {
			gap.Median = f.median
		}
		if stdDevChanged {
			gap.StdDev = f.stdDev
		}
		opts.Eyes.Gap = gap
	}
	seed := f.seed
	if !cmd.Flags().Changed(SeedOptionName) {
		seed = time.Now().UnixNano()
	}
	log.Info("Random eye seed: %d", seed)
	opts.Rand = rand.New(rand.NewSource(seed))
	return opts, nil
}

func (f *patchFlags) addTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.au, AUOptionName, "", "Previously converted audio asset with 'AU' magic header")
	cmd.Flags().StringVar(&f.wav, WAVOptionName, "", "Wave file, 16-bit mono at 16 or 32 kHz")
	cmd.Flags().StringVar(&f.rhubarbJSON, RhubarbJSONOptionName, "", "Rhubarb json file for mouth positions")
	cmd.Flags().BoolVar(&f.noMouth, NoMouthOptionName, false, "Drop the mark table")
	cmd.Flags().BoolVar(&f.randomEyes, RandomEyesOptionName, true, "Add random eye animations to the compiled marks")
	cmd.Flags().Float64Var(&f.median, RandomEyesMedianOptionName, config.DefaultEyeMedian, "Median time between eye animations in seconds")
	cmd.Flags().Float64Var(&f.stdDev, RandomEyesStdDevOptionName, config.DefaultEyeStdDev, "Standard deviation of the time between eye animations in seconds")
	cmd.Flags().Int64Var(&f.seed, SeedOptionName, 0, "Seed of the random eye animations. Time based when not set")
	cmd.Flags().BoolVar(&f.padMarkTable, PadMarkTableOptionName, false, "Pad the compiled mark table to the size of the one it replaces")
	cmd.Flags().StringVar(&f.dumpAU, DumpAUOptionName, "", "Also write the rebuilt audio asset to this file")
	cmd.Flags().StringVar(&f.encoder, EncoderOptionName, "", "Speech encoder command overriding the config")
}

// encoderConfig is the configured encoder with the command replaced by --encoder
func encoderConfig(cfg *config.Config, f *patchFlags) *config.EncoderConfig {
	if f.encoder == "" {
		return cfg.Encoder
	}
	override := config.EncoderConfig{}
	if cfg.Encoder != nil {
		override = *cfg.Encoder
	}
	override.Command = f.encoder
	return &override
}

func patchOptions(cmd *cobra.Command, cfg *config.Config, f *patchFlags) (patch.Options, error) {
	opts := patch.Options{
		NoMouth:      f.noMouth,
		PadMarkTable: f.padMarkTable,
	}
	var err error
	if opts.Timeline, err = timelineOptions(cmd, cfg, f); err != nil {
		return opts, err
	}
	if f.au != "" {
		if opts.AU, err = ioutil.ReadFile(f.au); err != nil {
			return opts, err
		}
	}
	if f.wav != "" {
		wavFile, err := os.Open(f.wav)
		if err != nil {
			return opts, err
		}
		defer wavFile.Close()
		if opts.PCM, err = speech.ReadWAV(wavFile); err != nil {
			return opts, fmt.Errorf("%s: %w", f.wav, err)
		}
		encoder := encoderConfig(cfg, f).ExecEncoder()
		if encoder == nil {
			return opts, fmt.Errorf("no speech encoder configured, set encoder.command in %s or use --%s", cfg.Path(), EncoderOptionName)
		}
		opts.Encoder = encoder
	}
	if f.rhubarbJSON != "" {
		data, err := ioutil.ReadFile(f.rhubarbJSON)
		if err != nil {
			return opts, err
		}
		if opts.Visemes, err = timeline.LoadDocument(data); err != nil {
			return opts, fmt.Errorf("%s: %w", f.rhubarbJSON, err)
		}
	}
	return opts, nil
}

func NewCommand(cfg *config.Config) *cobra.Command {
	f := &patchFlags{}
	cmd := &cobra.Command{
		Use:     "patch INPUT OUTPUT",
		Short:   "Replace the audio and the mark table of the first audio asset",
		Example: patchExample,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := ioutil.ReadFile(args[0])
			if err != nil {
				return err
			}
			opts, err := patchOptions(cmd, cfg, f)
			if err != nil {
				return err
			}
			res, err := patch.Run(cmd.Context(), src, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if err := ioutil.WriteFile(args[1], res.Output, 0644); err != nil {
				return err
			}
			if f.dumpAU != "" {
				au, err := res.Audio.Bytes()
				if err != nil {
					return err
				}
				if err := ioutil.WriteFile(f.dumpAU, au, 0644); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Patched asset %d: %d marks, %d ms, %d bytes written to %s\n",
				res.AssetIndex, len(res.Events), res.DurationMs, len(res.Output), args[1])
			return nil
		},
	}
	f.addTo(cmd)
	return cmd
}
