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
	"encoding/binary"
	"image"
	"image/color"
)

const (
	EyeWidth  = 128
	EyeHeight = 128
	// EyeBitmapSize is the size of an eye bitmap asset in bytes
	EyeBitmapSize = EyeWidth * EyeHeight * 2
)

// RGB565 is a 16-bit pixel: 5 bits red, 6 bits green, 5 bits blue
type RGB565 uint16

func (c RGB565) RGBA() (r, g, b, a uint32) {
	r5 := uint32(c>>11) & 0x1f
	g6 := uint32(c>>5) & 0x3f
	b5 := uint32(c) & 0x1f
	// scale to 8 bits, then to 16
	r = (r5<<3 | r5>>2) * 0x101
	g = (g6<<2 | g6>>4) * 0x101
	b = (b5<<3 | b5>>2) * 0x101
	return r, g, b, 0xffff
}

var RGB565Model = color.ModelFunc(rgb565Model)

func rgb565Model(c color.Color) color.Color {
	if _, ok := c.(RGB565); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return RGB565((r>>11)<<11 | (g>>10)<<5 | b>>11)
}

// Bitmap is an eye image
type Bitmap struct {
	Pix [EyeWidth * EyeHeight]RGB565
}

var _ image.Image = &Bitmap{}

// DecodeBitmap reads a bitmap from the first EyeBitmapSize bytes of buf
func DecodeBitmap(buf []byte) *Bitmap {
	bm := &Bitmap{}
	for i := range bm.Pix {
		bm.Pix[i] = RGB565(binary.LittleEndian.Uint16(buf[2*i:]))
	}
	return bm
}

// BitmapFromImage converts the top left 128x128 pixels of img
func BitmapFromImage(img image.Image) *Bitmap {
	bm := &Bitmap{}
	bounds := img.Bounds()
	for y := 0; y < EyeHeight; y++ {
		for x := 0; x < EyeWidth; x++ {
			bm.Pix[y*EyeWidth+x] = RGB565Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(RGB565)
		}
	}
	return bm
}

func (bm *Bitmap) ColorModel() color.Model {
	return RGB565Model
}

func (bm *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, EyeWidth, EyeHeight)
}

func (bm *Bitmap) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= EyeWidth || y >= EyeHeight {
		return RGB565(0)
	}
	return bm.Pix[y*EyeWidth+x]
}

// Bytes serializes the bitmap as stored in the container
func (bm *Bitmap) Bytes() []byte {
	buf := make([]byte, EyeBitmapSize)
	for i, p := range bm.Pix {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(p))
	}
	return buf
}
