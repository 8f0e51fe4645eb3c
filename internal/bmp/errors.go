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

import "fmt"

// ErrorKind enumerates every way Parse can fail. It is a closed set: pixel
// access never produces new kinds once a RawBmp exists, since pixel access
// itself is infallible.
type ErrorKind int

const (
	ErrTruncated ErrorKind = iota
	ErrInvalidFileSignature
	ErrUnsupportedDibHeaderSize
	ErrUnsupportedCompressionMethod
	ErrUnsupportedBpp
	ErrInvalidImageDimensions
	ErrColorTableMissing
	ErrInvalidChannelMasks
	ErrTruncatedImageData
)

// ParseError is the single tagged error value Parse can return. Arg carries
// the offending value (a DIB header size, a compression code, a bpp) for the
// kinds that have one; it is 0 and unused otherwise. ParseError never holds
// a string, so it costs nothing beyond an int and a uint32 even in a
// freestanding build; Error() formats a message lazily, on demand.
type ParseError struct {
	Kind ErrorKind
	Arg  uint32
}

func (e ParseError) Error() string {
	switch e.Kind {
	case ErrTruncated:
		return "bmp: truncated input"
	case ErrInvalidFileSignature:
		return "bmp: invalid file signature"
	case ErrUnsupportedDibHeaderSize:
		return fmt.Sprintf("bmp: unsupported DIB header size: %d", e.Arg)
	case ErrUnsupportedCompressionMethod:
		if name, ok := compressionName[e.Arg]; ok {
			return fmt.Sprintf("bmp: recognized but unsupported compression method: %s", name)
		}
		return fmt.Sprintf("bmp: unsupported compression method: %d", e.Arg)
	case ErrUnsupportedBpp:
		return fmt.Sprintf("bmp: unsupported bits per pixel: %d", e.Arg)
	case ErrInvalidImageDimensions:
		return "bmp: invalid image dimensions"
	case ErrColorTableMissing:
		return "bmp: color table missing"
	case ErrInvalidChannelMasks:
		return "bmp: invalid channel masks"
	case ErrTruncatedImageData:
		return "bmp: truncated image data"
	default:
		return "bmp: parse error"
	}
}
