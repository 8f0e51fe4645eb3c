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

// byteReader is a bounds-checked cursor over a borrowed byte slice. It never
// copies or mutates the slice it wraps; every read is a bounds check plus a
// little-endian widen.
type byteReader struct {
	buf []byte
}

func newByteReader(buf []byte) byteReader {
	return byteReader{buf: buf}
}

func (r byteReader) len() int {
	return len(r.buf)
}

func (r byteReader) require(off, n int) error {
	if off < 0 || n < 0 || off > len(r.buf)-n {
		return ParseError{Kind: ErrTruncated}
	}
	return nil
}

func (r byteReader) readU8(off int) (uint8, error) {
	if err := r.require(off, 1); err != nil {
		return 0, err
	}
	return r.buf[off], nil
}

func (r byteReader) readU16(off int) (uint16, error) {
	if err := r.require(off, 2); err != nil {
		return 0, err
	}
	b := r.buf[off : off+2]
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

func (r byteReader) readU32(off int) (uint32, error) {
	if err := r.require(off, 4); err != nil {
		return 0, err
	}
	b := r.buf[off : off+4]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

func (r byteReader) readI16(off int) (int16, error) {
	v, err := r.readU16(off)
	return int16(v), err
}

func (r byteReader) readI32(off int) (int32, error) {
	v, err := r.readU32(off)
	return int32(v), err
}
