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

package layers

import (
	"encoding/hex"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"jinr.ru/greenlab/go-snxrom/pkg/log"
)

const (
	// AudioLayerNum identifies the layer
	AudioLayerNum = 2001
)

// AudioLayer is a whole audio asset: header, mark table and compressed payload stored back to back
type AudioLayer struct {
	layers.BaseLayer
	Header AudioHeader
	// MarkTable holds the raw mark table bytes including the leading length word
	MarkTable []byte
	Audio     []byte
}

var AudioLayerType = gopacket.RegisterLayerType(AudioLayerNum,
	gopacket.LayerTypeMetadata{Name: "AudioLayerType", Decoder: gopacket.DecodeFunc(DecodeAudioLayer)})

// LayerType returns the type of the audio layer in the layer catalog
func (a *AudioLayer) LayerType() gopacket.LayerType {
	return AudioLayerType
}

func (a *AudioLayer) CanDecode() gopacket.LayerClass {
	return AudioLayerType
}

func (a *AudioLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypeZero
}

// Len is the number of bytes the layer occupies when serialized
func (a *AudioLayer) Len() int {
	return AudioHeaderSize + len(a.MarkTable) + len(a.Audio)
}

// SerializeTo serializes the audio asset into bytes and writes the bytes to the SerializeBuffer.
// With opts.FixLengths the header size, payload size and mark flag fields are recomputed
// from the mark table and payload.
func (a *AudioLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	if opts.FixLengths {
		a.Header.Tag = AudioTag
		a.Header.SetLengths(len(a.MarkTable), len(a.Audio))
	}
	bytes, err := b.AppendBytes(a.Len())
	if err != nil {
		return err
	}
	a.Header.Serialize(bytes[:AudioHeaderSize])
	copy(bytes[AudioHeaderSize:], a.MarkTable)
	copy(bytes[AudioHeaderSize+len(a.MarkTable):], a.Audio)
	return nil
}

// DecodeFromBytes decodes an audio asset. Data may extend past the payload, the rest goes to Payload.
func (a *AudioLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	c := NewCursor(data)
	if err := c.Read(&a.Header); err != nil {
		df.SetTruncated()
		return err
	}
	if a.Header.Tag != AudioTag {
		return &ErrAudioTag{Tag: a.Header.Tag}
	}
	if a.Header.HeaderSize < AudioHeaderWords {
		return &ErrHeaderSize{HeaderSize: a.Header.HeaderSize}
	}
	log.Debug("DecodeAudioLayer: SampleRate: %d", a.Header.SampleRate)
	log.Debug("DecodeAudioLayer: BitRate: %d", a.Header.BitRate)
	log.Debug("DecodeAudioLayer: TotalAudioFrames: %d", a.Header.TotalAudioFrames)
	log.Debug("DecodeAudioLayer: PayloadWords: %d", a.Header.PayloadWords)
	log.Debug("DecodeAudioLayer: MarkFlag: %d", a.Header.MarkFlag)
	log.Debug("DecodeAudioLayer: HeaderSize: %d", a.Header.HeaderSize)

	markTable, err := c.Next("MarkTable", a.Header.MarkTableLen())
	if err != nil {
		df.SetTruncated()
		return err
	}
	audio, err := c.Next("AudioPayload", a.Header.PayloadLen())
	if err != nil {
		df.SetTruncated()
		return err
	}
	if log.Enabled(log.DebugLevel) {
		log.Debug("DecodeAudioLayer: MarkTable: \n%s", hex.Dump(markTable))
	}

	a.MarkTable = append([]byte(nil), markTable...)
	a.Audio = append([]byte(nil), audio...)
	end := c.Offset()
	a.BaseLayer = layers.BaseLayer{
		Contents: data[:end],
		Payload:  data[end:],
	}
	return nil
}

func DecodeAudioLayer(data []byte, p gopacket.PacketBuilder) error {
	a := &AudioLayer{}
	err := a.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(a)
	return nil
}

// ParseAudioFile decodes a stand-alone audio asset, e.g. the output of the audio encoder
func ParseAudioFile(data []byte) (*AudioLayer, error) {
	a := &AudioLayer{}
	if err := a.DecodeFromBytes(data, gopacket.NilDecodeFeedback); err != nil {
		return nil, err
	}
	return a, nil
}

// Bytes serializes the layer as is
func (a *AudioLayer) Bytes() ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, a); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
