// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package bmp

import (
	"iter"
	"math/bits"
)

// Converter is the capability set a host color type must satisfy to receive
// normalized pixels: it must be buildable from an RGB555, an RGB565, or an
// RGB888 triple. Component values are native to each layout (0-31 for a
// 5-bit field, 0-63 for a 6-bit field, 0-255 for 8-bit); a Converter decides
// for itself how to widen them.
type Converter[C any] interface {
	FromRGB555(r5, g5, b5 uint8) C
	FromRGB565(r5, g6, b5 uint8) C
	FromRGB888(r, g, b uint8) C
}

// RGB888 is the reference 24-bit color triple returned by RGB888Converter.
type RGB888 struct {
	R, G, B uint8
}

type rgb888Converter struct{}

func (rgb888Converter) FromRGB555(r5, g5, b5 uint8) RGB888 {
	return RGB888{expandToByte(uint32(r5), 5), expandToByte(uint32(g5), 5), expandToByte(uint32(b5), 5)}
}

func (rgb888Converter) FromRGB565(r5, g6, b5 uint8) RGB888 {
	return RGB888{expandToByte(uint32(r5), 5), expandToByte(uint32(g6), 6), expandToByte(uint32(b5), 5)}
}

func (rgb888Converter) FromRGB888(r, g, b uint8) RGB888 {
	return RGB888{r, g, b}
}

// RGB888Converter is the core's own thin adapter: it returns the canonical
// 24-bit triple untouched. Host frameworks with their own color types
// provide their own Converter instead of using this one.
var RGB888Converter Converter[RGB888] = rgb888Converter{}

// expandToByte scales a w-bit field value to 8 bits by shift-and-fill:
// (v << (8-w)) | (v >> (2w-8)) when w < 8, a right-shift when w > 8, and
// identity when w == 8.
func expandToByte(v uint32, w int) uint8 {
	switch {
	case w <= 0:
		return 0
	case w == 8:
		return uint8(v)
	case w > 8:
		return uint8(v >> uint(w-8))
	default:
		v8 := v << uint(8-w)
		if fill := 2*w - 8; fill >= 0 {
			v8 |= v >> uint(fill)
		}
		return uint8(v8)
	}
}

// extractField pulls the bits under mask out of raw and shifts them down to
// bit 0, without widening them — the native-width value a Converter's
// FromRGB555/FromRGB565 expects.
func extractField(raw, mask uint32) uint32 {
	if mask == 0 {
		return 0
	}
	return (raw & mask) >> uint(bits.TrailingZeros32(mask))
}

// extractChannelByte extracts and scales one channel to 8 bits in one step,
// for masks that don't match a canonical 555/565 layout.
func extractChannelByte(raw, mask uint32) uint8 {
	if mask == 0 {
		return 0
	}
	width := bits.OnesCount32(mask)
	return expandToByte(extractField(raw, mask), width)
}

const (
	rgb555RedMask   = 0x7C00
	rgb555GreenMask = 0x03E0
	rgb555BlueMask  = 0x001F

	rgb565RedMask   = 0xF800
	rgb565GreenMask = 0x07E0
	rgb565BlueMask  = 0x001F
)

func isCanonicalRGB555(m *ChannelMasks) bool {
	return m.Red == rgb555RedMask && m.Green == rgb555GreenMask && m.Blue == rgb555BlueMask
}

func isCanonicalRGB565(m *ChannelMasks) bool {
	return m.Red == rgb565RedMask && m.Green == rgb565GreenMask && m.Blue == rgb565BlueMask
}

// buildConverterFunc picks, once, the function that turns a raw pixel word
// into C. The switch happens at view-construction time only — per pixel
// there's a single closure call, no further dispatch.
func buildConverterFunc[C any](h *Header, ct *ColorTable, conv Converter[C]) func(raw uint32) C {
	switch {
	case h.Bpp == 1 || h.Bpp == 4 || h.Bpp == 8:
		return func(raw uint32) C {
			packed, ok := ct.Get(raw)
			if !ok {
				packed = 0 // documented out-of-range sentinel: black
			}
			return conv.FromRGB888(uint8(packed>>16), uint8(packed>>8), uint8(packed))
		}

	case h.Bpp == 16 && h.ChannelMasks == nil:
		return func(raw uint32) C {
			r5 := uint8((raw >> 10) & 0x1F)
			g5 := uint8((raw >> 5) & 0x1F)
			b5 := uint8(raw & 0x1F)
			return conv.FromRGB555(r5, g5, b5)
		}

	case h.Bpp == 16 && isCanonicalRGB555(h.ChannelMasks):
		m := h.ChannelMasks
		return func(raw uint32) C {
			return conv.FromRGB555(uint8(extractField(raw, m.Red)), uint8(extractField(raw, m.Green)), uint8(extractField(raw, m.Blue)))
		}

	case h.Bpp == 16 && isCanonicalRGB565(h.ChannelMasks):
		m := h.ChannelMasks
		return func(raw uint32) C {
			return conv.FromRGB565(uint8(extractField(raw, m.Red)), uint8(extractField(raw, m.Green)), uint8(extractField(raw, m.Blue)))
		}

	case h.Bpp == 16:
		m := h.ChannelMasks
		return func(raw uint32) C {
			return conv.FromRGB888(extractChannelByte(raw, m.Red), extractChannelByte(raw, m.Green), extractChannelByte(raw, m.Blue))
		}

	case h.Bpp == 24:
		return func(raw uint32) C {
			return conv.FromRGB888(uint8(raw>>16), uint8(raw>>8), uint8(raw))
		}

	case h.Bpp == 32 && h.ChannelMasks == nil:
		return func(raw uint32) C {
			return conv.FromRGB888(uint8(raw>>16), uint8(raw>>8), uint8(raw))
		}

	default: // 32 bpp with masks
		m := h.ChannelMasks
		return func(raw uint32) C {
			return conv.FromRGB888(extractChannelByte(raw, m.Red), extractChannelByte(raw, m.Green), extractChannelByte(raw, m.Blue))
		}
	}
}

// Point is a pixel's logical position within an image, (0,0) at the
// top-left corner regardless of how the file stores its rows.
type Point struct {
	X, Y int
}

// Bmp is a normalized view over a RawBmp, parameterized by a host color
// type C. Construction picks the pixel-conversion path once; every
// Pixel/Pixels call after that just runs it.
type Bmp[C any] struct {
	raw    *RawBmp
	convFn func(raw uint32) C
}

// NewBmp builds a normalized view over an already-parsed RawBmp.
func NewBmp[C any](raw *RawBmp, conv Converter[C]) *Bmp[C] {
	return &Bmp[C]{
		raw:    raw,
		convFn: buildConverterFunc(&raw.header, raw.colorTable, conv),
	}
}

// ParseBmp parses data and wraps the result in a normalized view in one
// step.
func ParseBmp[C any](data []byte, conv Converter[C]) (*Bmp[C], error) {
	raw, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return NewBmp(raw, conv), nil
}

// Raw returns the underlying RawBmp, for callers that also want raw pixel
// access or header metadata.
func (v *Bmp[C]) Raw() *RawBmp {
	return v.raw
}

// Size returns the image's (width, height).
func (v *Bmp[C]) Size() (int, int) {
	return v.raw.header.Width, v.raw.header.Height
}

// Pixel returns the normalized color at (x, y), and true if the coordinate
// is within the image.
func (v *Bmp[C]) Pixel(x, y int) (C, bool) {
	raw, ok := v.raw.Pixel(x, y)
	if !ok {
		var zero C
		return zero, false
	}
	return v.convFn(raw), true
}

// Pixels returns a restartable, finite sequence of (position, color) pairs
// in row-major top-to-bottom order.
func (v *Bmp[C]) Pixels() iter.Seq2[Point, C] {
	return func(yield func(Point, C) bool) {
		h := &v.raw.header
		for y := 0; y < h.Height; y++ {
			for x := 0; x < h.Width; x++ {
				raw, _ := v.raw.Pixel(x, y)
				if !yield(Point{X: x, Y: y}, v.convFn(raw)) {
					return
				}
			}
		}
	}
}
