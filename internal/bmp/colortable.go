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

// ColorTable is a borrowed view over a BMP palette. Entries are 4 bytes
// (B, G, R, reserved) for every DIB header except BITMAPCOREHEADER, which
// packs them into 3 (B, G, R). It never copies the bytes it wraps.
type ColorTable struct {
	data      []byte
	entrySize int
	count     int
}

// newColorTable builds a ColorTable over data, capping the visible entry
// count at 2^bpp and at however many whole entries data actually holds.
func newColorTable(data []byte, entrySize, bpp int) ColorTable {
	maxEntries := 1 << uint(bpp)
	count := len(data) / entrySize
	if count > maxEntries {
		count = maxEntries
	}
	return ColorTable{data: data, entrySize: entrySize, count: count}
}

// Len returns the number of visible palette entries.
func (c *ColorTable) Len() int {
	return c.count
}

// Get returns the 24-bit RGB value (0x00RRGGBB) of the palette entry at
// index, and true if index is within range. The reserved 4th byte of a
// 4-byte entry is ignored. Out-of-range indices return (0, false); callers
// that want a lenient black sentinel instead map that themselves.
func (c *ColorTable) Get(index uint32) (uint32, bool) {
	if int(index) >= c.count {
		return 0, false
	}
	off := int(index) * c.entrySize
	b, g, r := c.data[off], c.data[off+1], c.data[off+2]
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b), true
}
