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

// Package bmp decodes Windows BMP files into header metadata and a
// zero-copy pixel view over the caller's own buffer. It never allocates for
// pixel storage, never performs I/O, and never reports a pixel-access
// error: every failure surfaces once, from Parse.
package bmp

import "iter"

// RawBmp is the result of a successful Parse. It borrows from the input
// slice for as long as it's used; nothing is copied out of it except the
// small Header value.
type RawBmp struct {
	header     Header
	colorTable *ColorTable
	imageData  []byte
	// pixelData covers at least RowStride*Height bytes from ImageDataStart,
	// even when the file's declared image_data_len is smaller (a corrupt or
	// unusually authored uncompressed BMP). Row addressing always reads
	// from pixelData, never from imageData, so a too-small declared length
	// can never turn into an out-of-bounds read.
	pixelData []byte
}

// RawPixel is one pixel from RawBmp.Pixels(): its logical (x, y) position
// plus its raw color word, bpp bits wide, zero-extended to 32 bits.
type RawPixel struct {
	X, Y  int
	Color uint32
}

// Parse decodes a complete BMP file held in data. data is borrowed for the
// lifetime of the returned RawBmp; Parse itself copies nothing out of it.
func Parse(data []byte) (*RawBmp, error) {
	r := newByteReader(data)

	parsed, err := parseHeader(r)
	if err != nil {
		return nil, err
	}
	h := parsed.Header

	end := int64(h.ImageDataStart) + int64(h.ImageDataLen)
	if end > int64(len(data)) {
		return nil, ParseError{Kind: ErrTruncatedImageData}
	}

	neededLen := int64(h.RowStride) * int64(h.Height)
	pixelEnd := int64(h.ImageDataStart) + neededLen
	if pixelEnd > int64(len(data)) {
		return nil, ParseError{Kind: ErrTruncatedImageData}
	}
	if pixelEnd < end {
		pixelEnd = end
	}

	var colorTable *ColorTable
	if h.Bpp <= 8 {
		tableEnd := int(h.ImageDataStart)
		if tableEnd < parsed.tableStart {
			tableEnd = parsed.tableStart
		}
		entrySize := h.colorEntrySize()
		tableBytes := data[parsed.tableStart:tableEnd]
		if len(tableBytes) < entrySize || len(tableBytes)%entrySize != 0 {
			return nil, ParseError{Kind: ErrColorTableMissing}
		}
		ct := newColorTable(tableBytes, entrySize, h.Bpp)
		if ct.Len() == 0 {
			return nil, ParseError{Kind: ErrColorTableMissing}
		}
		colorTable = &ct
	}

	return &RawBmp{
		header:     h,
		colorTable: colorTable,
		imageData:  data[h.ImageDataStart:end],
		pixelData:  data[h.ImageDataStart:pixelEnd],
	}, nil
}

// Header returns the normalized header record.
func (b *RawBmp) Header() *Header {
	return &b.header
}

// ColorTable returns the palette view, or nil for 16/24/32-bpp images.
func (b *RawBmp) ColorTable() *ColorTable {
	return b.colorTable
}

// ImageData returns the raw pixel array, the sub-slice of the original
// input starting at Header().ImageDataStart.
func (b *RawBmp) ImageData() []byte {
	return b.imageData
}

// rowOffset returns the byte offset, within the pixel data, of the first
// byte of the file row that holds logical row y (for bottom-up images the
// file row differs from the logical row).
func (b *RawBmp) rowOffset(y int) int {
	fileRow := y
	if b.header.RowOrder == BottomUp {
		fileRow = b.header.Height - 1 - y
	}
	return fileRow * b.header.RowStride
}

// Pixel returns the raw (unnormalized) color word at (x, y), and true if
// the coordinate is within the image. Out-of-range coordinates return
// (0, false); they are never an error. Pixel access never fails once a
// RawBmp exists.
func (b *RawBmp) Pixel(x, y int) (uint32, bool) {
	h := &b.header
	if x < 0 || y < 0 || x >= h.Width || y >= h.Height {
		return 0, false
	}

	row := b.pixelData[b.rowOffset(y):]
	switch h.Bpp {
	case 1:
		byteOff := x / 8
		bit := uint(7 - x%8)
		return uint32(row[byteOff]>>bit) & 1, true
	case 4:
		byteOff := x / 2
		if x%2 == 0 {
			return uint32(row[byteOff] >> 4), true
		}
		return uint32(row[byteOff] & 0x0F), true
	case 8:
		return uint32(row[x]), true
	case 16:
		off := x * 2
		return uint32(row[off]) | uint32(row[off+1])<<8, true
	case 24:
		off := x * 3
		b0, g0, r0 := row[off], row[off+1], row[off+2]
		return uint32(r0)<<16 | uint32(g0)<<8 | uint32(b0), true
	case 32:
		off := x * 4
		return uint32(row[off]) | uint32(row[off+1])<<8 | uint32(row[off+2])<<16 | uint32(row[off+3])<<24, true
	default:
		return 0, false
	}
}

// Pixels returns a restartable, finite sequence of every pixel in the
// image, in row-major top-to-bottom order. Each call to Pixels returns an
// independent sequence: there is no shared cursor, and iterating twice
// yields identical results.
func (b *RawBmp) Pixels() iter.Seq[RawPixel] {
	return func(yield func(RawPixel) bool) {
		h := &b.header
		for y := 0; y < h.Height; y++ {
			for x := 0; x < h.Width; x++ {
				color, _ := b.Pixel(x, y)
				if !yield(RawPixel{X: x, Y: y, Color: color}) {
					return
				}
			}
		}
	}
}
