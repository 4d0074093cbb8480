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

package config

import (
	"errors"
	"io/fs"
	"io/ioutil"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"jinr.ru/greenlab/go-snxrom/pkg/speech"
	"jinr.ru/greenlab/go-snxrom/pkg/timeline"
)

type TimelineConfig struct {
	// Latency in ms indexed by [from][to] mouth state: closed, half, full
	Latency    [3][3]uint32 `yaml:"latency"`
	RandomEyes bool         `yaml:"randomEyes"`
	EyeIntro   uint16       `yaml:"eyeIntro"`
	EyeIDs     []uint16     `yaml:"eyeIds"`
	// EyeGap is gaussian (EyeMedian, EyeStdDev) or uniform (EyeMin, EyeMax), in seconds
	EyeGap    string  `yaml:"eyeGap"`
	EyeMedian float64 `yaml:"eyeMedian"`
	EyeStdDev float64 `yaml:"eyeStdDev"`
	EyeMin    float64 `yaml:"eyeMin"`
	EyeMax    float64 `yaml:"eyeMax"`
}

type EncoderConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
}

type Config struct {
	LogLevel    string          `yaml:"logLevel"`
	CatalogPath string          `yaml:"catalogPath"`
	Timeline    *TimelineConfig `yaml:"timeline,omitempty"`
	Encoder     *EncoderConfig  `yaml:"encoder,omitempty"`
	filepath    string
}

// Path is the file the config is loaded from and persisted to
func (c *Config) Path() string {
	return c.filepath
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(c.filepath, data, 0644)
}

// Load reads the config file over the current values. A missing file leaves them as they are.
func (c *Config) Load() error {
	data, err := ioutil.ReadFile(c.filepath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	if c.Timeline == nil {
		c.Timeline = NewDefaultTimelineConfig()
	}
	return nil
}

func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err.Error()
	}
	return string(data)
}

// Options converts the timeline section into compiler options. A nil section gives the defaults.
func (t *TimelineConfig) Options() (timeline.Options, error) {
	if t == nil {
		t = NewDefaultTimelineConfig()
	}
	opts := timeline.Options{
		Latency:    timeline.LatencyTable(t.Latency),
		RandomEyes: t.RandomEyes,
		Eyes: timeline.EyeOptions{
			Intro: t.EyeIntro,
			IDs:   t.EyeIDs,
		},
	}
	switch t.EyeGap {
	case GaussianGap, "":
		opts.Eyes.Gap = timeline.Gaussian{Median: t.EyeMedian, StdDev: t.EyeStdDev}
	case UniformGap:
		if t.EyeMax < t.EyeMin {
			return opts, ErrConfig{What: "eyeMax is below eyeMin"}
		}
		opts.Eyes.Gap = timeline.Uniform{Min: t.EyeMin, Max: t.EyeMax}
	default:
		return opts, ErrConfig{What: "eyeGap must be one of: gaussian, uniform"}
	}
	if err := opts.Latency.Validate(); err != nil {
		return opts, err
	}
	if err := opts.Eyes.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// ExecEncoder builds the external speech encoder, nil when no command is configured
func (e *EncoderConfig) ExecEncoder() *speech.ExecEncoder {
	if e == nil || e.Command == "" {
		return nil
	}
	return speech.NewExecEncoder(e.Command, e.Args...)
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func DefaultCatalogPath() string {
	return filepath.Join(filepath.Dir(DefaultConfigPath()), CatalogFile)
}

func NewDefaultTimelineConfig() *TimelineConfig {
	return &TimelineConfig{
		Latency:    timeline.DefaultLatency,
		RandomEyes: true,
		EyeIntro:   DefaultEyeIntro,
		EyeIDs:     append([]uint16(nil), DefaultEyeIDs...),
		EyeGap:     DefaultEyeGap,
		EyeMedian:  DefaultEyeMedian,
		EyeStdDev:  DefaultEyeStdDev,
		EyeMin:     DefaultEyeMin,
		EyeMax:     DefaultEyeMax,
	}
}

func NewConfig(path string) *Config {
	return &Config{
		LogLevel:    DefaultLogLevel,
		CatalogPath: DefaultCatalogPath(),
		Timeline:    NewDefaultTimelineConfig(),
		Encoder: &EncoderConfig{
			Command: DefaultEncoderPath,
			Args:    append([]string(nil), DefaultEncoderArgs...),
		},
		filepath: path,
	}
}

func NewDefaultConfig() *Config {
	return NewConfig(DefaultConfigPath())
}
