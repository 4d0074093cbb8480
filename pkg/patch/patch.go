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

// Package patch replaces the speech and the mark table of a SNXROM container.
//
// The first audio asset of the container is rebuilt from a replacement audio (a pre-encoded
// audio asset or PCM run through an encoder) and a mark table (compiled from a viseme timeline,
// dropped, or kept from the audio source). Every asset after it is dropped.
package patch

import (
	"context"
	"errors"
	"fmt"

	"jinr.ru/greenlab/go-snxrom/pkg/container"
	"jinr.ru/greenlab/go-snxrom/pkg/layers"
	"jinr.ru/greenlab/go-snxrom/pkg/log"
	"jinr.ru/greenlab/go-snxrom/pkg/mark"
	"jinr.ru/greenlab/go-snxrom/pkg/speech"
	"jinr.ru/greenlab/go-snxrom/pkg/timeline"
)

type Options struct {
	// AU is a stand-alone audio asset replacing the audio of the container
	AU []byte
	// PCM is encoded with Encoder to replace the audio of the container
	PCM     *speech.PCM
	Encoder speech.Encoder

	// Visemes builds a new mark table, it wins over NoMouth
	Visemes *timeline.Document
	// NoMouth drops the mark table
	NoMouth  bool
	Timeline timeline.Options
	// PadMarkTable keeps a compiled mark table the size of the one it replaces when it fits
	PadMarkTable bool
}

func (o *Options) validate() error {
	if o.AU != nil && o.PCM != nil {
		return &ErrOptions{What: "both an audio asset and PCM given"}
	}
	if o.PCM != nil && o.Encoder == nil {
		return &ErrOptions{What: "PCM given without an encoder"}
	}
	return nil
}

type Result struct {
	// Output is the patched container
	Output []byte
	// AssetIndex is the index of the patched audio asset, now the last asset
	AssetIndex int
	// Audio is the rebuilt audio asset
	Audio *layers.AudioLayer
	// Events are the marks of the rebuilt audio asset
	Events     []mark.Event
	DurationMs uint32
}

// replacement is the audio going into the patched asset with the marks it came with
type replacement struct {
	header    layers.AudioHeader
	markTable []byte
	payload   []byte
}

func audioReplacement(ctx context.Context, orig *container.AudioAsset, opts *Options) (*replacement, error) {
	switch {
	case opts.AU != nil:
		au, err := layers.ParseAudioFile(opts.AU)
		if err != nil {
			return nil, fmt.Errorf("replacement audio asset: %w", err)
		}
		log.Info("Replacing audio with a %d byte audio asset", len(opts.AU))
		return &replacement{header: au.Header, markTable: au.MarkTable, payload: au.Audio}, nil
	case opts.PCM != nil:
		chunks := speech.ChunkSizes(opts.PCM.SampleRate)
		payload, err := opts.Encoder.Encode(ctx, opts.PCM, chunks)
		if err != nil {
			return nil, err
		}
		header := speech.NewAudioHeader(opts.PCM.SampleRate, chunks, len(payload))
		log.Info("Replacing audio with %d ms of encoded speech", opts.PCM.DurationMs())
		return &replacement{header: header, payload: payload}, nil
	default:
		log.Info("Keeping the audio of asset %d", orig.Index)
		return &replacement{header: orig.Header, markTable: orig.MarkTable, payload: orig.Payload}, nil
	}
}

func markTable(r *replacement, durationMs uint32, opts *Options) ([]byte, error) {
	switch {
	case opts.Visemes != nil:
		tlOpts := opts.Timeline
		tlOpts.DurationMs = durationMs
		events, err := timeline.Compile(opts.Visemes, tlOpts)
		if err != nil {
			return nil, err
		}
		var encOpts []mark.Option
		if opts.PadMarkTable && len(r.markTable) > 0 {
			encOpts = append(encOpts, mark.WithPadding(len(r.markTable)/2))
		}
		table, err := mark.EncodeBytes(events, encOpts...)
		if err != nil {
			var overflow *mark.ErrTableOverflow
			if len(encOpts) > 0 && errors.As(err, &overflow) {
				log.Warning("Compiled mark table does not fit %d bytes, writing it unpadded", len(r.markTable))
				return mark.EncodeBytes(events)
			}
			return nil, err
		}
		log.Info("Compiled %d marks over %d ms", len(events), durationMs)
		return table, nil
	case opts.NoMouth:
		log.Info("Dropping the mark table")
		return nil, nil
	default:
		return r.markTable, nil
	}
}

// Run patches the container src
func Run(ctx context.Context, src []byte, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	c, err := container.Parse(src)
	if err != nil {
		return nil, err
	}
	orig, err := c.FirstAudio()
	if err != nil {
		return nil, err
	}
	log.Info("Patching audio asset %d of %d at %#x", orig.Index, len(c.Assets), orig.Offset)

	r, err := audioReplacement(ctx, orig, &opts)
	if err != nil {
		return nil, err
	}
	durationMs := speech.DurationMs(uint32(len(r.payload)/2), r.header.BitRate)
	table, err := markTable(r, durationMs, &opts)
	if err != nil {
		return nil, err
	}

	out, err := container.SpliceAudioAsset(c, orig.Index, r.header, table, r.payload)
	if err != nil {
		return nil, err
	}
	end := int(orig.Offset) + layers.AudioHeaderSize + len(table) + len(r.payload)
	audio, err := layers.ParseAudioFile(out[orig.Offset:end])
	if err != nil {
		return nil, err
	}
	events, err := mark.ParseTable(audio.MarkTable)
	if err != nil {
		return nil, err
	}
	log.Info("Patched container: %d -> %d bytes", len(src), len(out))
	return &Result{
		Output:     out,
		AssetIndex: orig.Index,
		Audio:      audio,
		Events:     events,
		DurationMs: durationMs,
	}, nil
}
