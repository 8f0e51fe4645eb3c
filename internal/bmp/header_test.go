package bmp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Scenario 1: 1bpp mapped, 8x8 checkerboard, black at (0,0).
func TestParse_1bppCheckerboard(t *testing.T) {
	const width, height = 8, 8
	stride := rowStrideFor(width, 1)
	pixels := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		var row byte
		for x := 0; x < width; x++ {
			if (x+y)%2 != 0 {
				row |= 1 << uint(7-x%8)
			}
		}
		pixels[y*stride] = row
	}

	buf := bmpBuilder{
		width: width, height: -height, bpp: 1, compression: BI_RGB,
		palette: []byte{0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0},
		pixels:  pixels,
	}.build(t)

	raw, err := Parse(buf)
	require.NoError(t, err)
	require.Equal(t, TopDown, raw.Header().RowOrder)

	black, ok := raw.Pixel(0, 0)
	require.True(t, ok)
	require.Equal(t, uint32(0), black)

	view := NewBmp(raw, RGB888Converter)
	bl, ok := view.Pixel(0, 0)
	require.True(t, ok)
	require.Equal(t, RGB888{0, 0, 0}, bl)

	wh, ok := view.Pixel(1, 0)
	require.True(t, ok)
	require.Equal(t, RGB888{0xFF, 0xFF, 0xFF}, wh)

	wh2, ok := view.Pixel(0, 1)
	require.True(t, ok)
	require.Equal(t, RGB888{0xFF, 0xFF, 0xFF}, wh2)

	count := 0
	for range raw.Pixels() {
		count++
	}
	require.Equal(t, 64, count)
}

// Scenario 2: 24bpp, 8x8, BottomUp, single white pixel at logical (3,2)
// against black, stored under a BITMAPV4HEADER (the header-size choice that
// makes file_size==314 and image_data_start==122 come out exactly).
func TestParse_24bppBottomUpV4Header(t *testing.T) {
	const width, height = 8, 8
	stride := rowStrideFor(width, 24)
	require.Equal(t, 24, stride)
	pixels := make([]byte, stride*height)
	// file row for logical (3,2) in BottomUp order: fileRow = height-1-y = 5.
	fileRow, px := 5, 3
	off := fileRow*stride + px*3
	pixels[off], pixels[off+1], pixels[off+2] = 0xFF, 0xFF, 0xFF // B,G,R

	const dib = fileHeaderLen
	const v4Size = 108
	dataOffset := fileHeaderLen + v4Size
	total := dataOffset + len(pixels)

	buf := make([]byte, total)
	buf[0], buf[1] = 'B', 'M'
	putU32(buf, 2, uint32(total))
	putU32(buf, 10, uint32(dataOffset))
	putU32(buf, dib, v4Size)
	putI32(buf, dib+4, width)
	putI32(buf, dib+8, height)
	putU16(buf, dib+12, 1)
	putU16(buf, dib+14, 24)
	putU32(buf, dib+16, BI_RGB)
	putU32(buf, dib+20, 0)
	// A V4 header always carries mask fields, validated regardless of
	// compression; 24bpp never consults them, so any non-overlapping,
	// non-zero layout satisfies parseHeader without affecting decoding.
	putU32(buf, dib+40, 0xFF0000)
	putU32(buf, dib+44, 0x00FF00)
	putU32(buf, dib+48, 0x0000FF)
	copy(buf[dataOffset:], pixels)

	raw, err := Parse(buf)
	require.NoError(t, err)

	h := raw.Header()
	require.Equal(t, uint32(314), h.FileSize)
	require.Equal(t, uint32(122), h.ImageDataStart)
	require.Equal(t, uint32(192), h.ImageDataLen)
	require.Equal(t, BottomUp, h.RowOrder)

	v, ok := raw.Pixel(3, 2)
	require.True(t, ok)
	require.Equal(t, uint32(0x00FFFFFF), v)
}

// Scenario 3: 16bpp RGB555, 2x1, red then blue.
func TestParse_16bppRGB555NoMasks(t *testing.T) {
	buf := bmpBuilder{
		width: 2, height: 1, bpp: 16, compression: BI_RGB,
		pixels: []byte{0x00, 0x7C, 0x1F, 0x00},
	}.build(t)

	raw, err := Parse(buf)
	require.NoError(t, err)
	require.Nil(t, raw.Header().ChannelMasks)

	view := NewBmp(raw, RGB888Converter)
	red, ok := view.Pixel(0, 0)
	require.True(t, ok)
	require.Equal(t, RGB888{0xFF, 0x00, 0x00}, red)

	blue, ok := view.Pixel(1, 0)
	require.True(t, ok)
	require.Equal(t, RGB888{0x00, 0x00, 0xFF}, blue)
}

// Scenario 4: 32bpp BI_BITFIELDS, 1x1, value 0x8034A1C2.
func TestParse_32bppBitfields(t *testing.T) {
	masks := &ChannelMasks{Red: 0x00FF0000, Green: 0x0000FF00, Blue: 0x000000FF, Alpha: 0xFF000000}
	buf := bmpBuilder{
		width: 1, height: 1, bpp: 32, compression: BI_BITFIELDS, masks: masks,
		pixels: []byte{0xC2, 0xA1, 0x34, 0x80}, // LE encoding of 0x8034A1C2
	}.build(t)

	raw, err := Parse(buf)
	require.NoError(t, err)
	// A 40-byte header with BI_BITFIELDS carries only the three RGB masks,
	// so the alpha mask is not part of the file and parses as 0.
	require.Equal(t, &ChannelMasks{Red: masks.Red, Green: masks.Green, Blue: masks.Blue}, raw.Header().ChannelMasks)

	rawPixel, ok := raw.Pixel(0, 0)
	require.True(t, ok)
	require.Equal(t, uint32(0x8034A1C2), rawPixel)

	view := NewBmp(raw, RGB888Converter)
	c, ok := view.Pixel(0, 0)
	require.True(t, ok)
	require.Equal(t, RGB888{0x34, 0xA1, 0xC2}, c)
}

// Scenario 5: 4bpp mapped, width=3 height=2, TopDown.
func TestParse_4bppTopDown(t *testing.T) {
	stride := rowStrideFor(3, 4)
	require.Equal(t, 4, stride)

	row0 := []byte{0x12, 0x30}
	row1 := []byte{0x45, 0x60}
	pixels := make([]byte, stride*2)
	copy(pixels[0:], row0)
	copy(pixels[stride:], row1)

	palette := make([]byte, 16*4) // 4bpp -> up to 16 entries
	buf := bmpBuilder{
		width: 3, height: -2, bpp: 4, compression: BI_RGB,
		palette: palette,
		pixels:  pixels,
	}.build(t)

	raw, err := Parse(buf)
	require.NoError(t, err)
	require.Equal(t, TopDown, raw.Header().RowOrder)
	require.Equal(t, 4, raw.Header().RowStride)
	require.Equal(t, uint32(fileHeaderLen+dibHeaderInfo+len(palette)), raw.Header().ImageDataStart)

	p0, _ := raw.Pixel(0, 0)
	p1, _ := raw.Pixel(1, 0)
	p2, _ := raw.Pixel(2, 0)
	require.Equal(t, uint32(0x1), p0)
	require.Equal(t, uint32(0x2), p1)
	require.Equal(t, uint32(0x3), p2)
}

// Scenario 6: 32bpp declared for a 10x10 image but only 4 bytes of pixel
// data actually present.
func TestParse_TruncatedImageData(t *testing.T) {
	const dib = fileHeaderLen
	dataOffset := fileHeaderLen + dibHeaderInfo
	buf := make([]byte, dataOffset+4)
	buf[0], buf[1] = 'B', 'M'
	putU32(buf, 2, uint32(len(buf)))
	putU32(buf, 10, uint32(dataOffset))
	putU32(buf, dib, dibHeaderInfo)
	putI32(buf, dib+4, 10)
	putI32(buf, dib+8, 10)
	putU16(buf, dib+12, 1)
	putU16(buf, dib+14, 32)
	putU32(buf, dib+16, BI_RGB)
	putU32(buf, dib+20, 0)

	_, err := Parse(buf)
	require.Error(t, err)
	var pe ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrTruncatedImageData, pe.Kind)
}

func TestParse_Truncated(t *testing.T) {
	buf := []byte{'B', 'M', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0} // 13 bytes, one short of the file header
	_, err := Parse(buf)
	var pe ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrTruncated, pe.Kind)
}

func TestParse_InvalidFileSignature(t *testing.T) {
	buf := bmpBuilder{width: 1, height: 1, bpp: 24, compression: BI_RGB, pixels: []byte{0, 0, 0, 0}}.build(t)
	buf[0] = 'X'
	_, err := Parse(buf)
	var pe ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrInvalidFileSignature, pe.Kind)
}

func TestParse_UnsupportedDibHeaderSize(t *testing.T) {
	buf := make([]byte, 14+4)
	buf[0], buf[1] = 'B', 'M'
	putU32(buf, 2, uint32(len(buf)))
	putU32(buf, 10, uint32(len(buf)))
	putU32(buf, 14, 99)
	_, err := Parse(buf)
	var pe ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrUnsupportedDibHeaderSize, pe.Kind)
	require.Equal(t, uint32(99), pe.Arg)
}

func TestParse_UnsupportedCompressionMethod(t *testing.T) {
	buf := bmpBuilder{width: 1, height: 1, bpp: 24, compression: BI_RLE8, pixels: []byte{0, 0, 0}}.build(t)
	_, err := Parse(buf)
	var pe ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrUnsupportedCompressionMethod, pe.Kind)
	require.Equal(t, uint32(BI_RLE8), pe.Arg)
}

func TestParse_UnsupportedBpp(t *testing.T) {
	buf := bmpBuilder{width: 1, height: 1, bpp: 2, compression: BI_RGB, pixels: []byte{0, 0, 0, 0}}.build(t)
	_, err := Parse(buf)
	var pe ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrUnsupportedBpp, pe.Kind)
}

func TestParse_InvalidImageDimensions(t *testing.T) {
	buf := bmpBuilder{width: 0, height: 1, bpp: 24, compression: BI_RGB, pixels: []byte{}}.build(t)
	_, err := Parse(buf)
	var pe ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrInvalidImageDimensions, pe.Kind)
}

func TestParse_ColorTableMissing(t *testing.T) {
	buf := bmpBuilder{width: 1, height: 1, bpp: 8, compression: BI_RGB, pixels: []byte{0, 0, 0, 0}}.build(t)
	// no palette bytes at all
	_, err := Parse(buf)
	var pe ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrColorTableMissing, pe.Kind)
}

func TestParse_BITMAPCOREHEADER(t *testing.T) {
	const width, height = 2, 1
	dataOffset := fileHeaderLen + dibHeaderCore + 2*3 // 2-entry, 3-byte palette
	pixels := []byte{0x40, 0x00, 0x00, 0x00}          // 1 byte row, padded to 4
	total := dataOffset + len(pixels)

	buf := make([]byte, total)
	buf[0], buf[1] = 'B', 'M'
	putU32(buf, 2, uint32(total))
	putU32(buf, 10, uint32(dataOffset))
	const dib = fileHeaderLen
	putU32(buf, dib, dibHeaderCore)
	putU16(buf, dib+4, width)
	putU16(buf, dib+6, height)
	putU16(buf, dib+8, 1)
	putU16(buf, dib+10, 1) // 1 bpp
	off := dib + dibHeaderCore
	buf[off+0], buf[off+1], buf[off+2] = 0, 0, 0 // entry 0: black
	buf[off+3], buf[off+4], buf[off+5] = 9, 9, 9 // entry 1: (9,9,9), distinguishable
	copy(buf[dataOffset:], pixels)

	raw, err := Parse(buf)
	require.NoError(t, err)
	require.Equal(t, 2, raw.Header().Width)
	require.Equal(t, 1, raw.Header().Height)

	v0, ok := raw.Pixel(0, 0)
	require.True(t, ok)
	require.Equal(t, uint32(0), v0) // top bit of 0x40 is 0

	v1, ok := raw.Pixel(1, 0)
	require.True(t, ok)
	require.Equal(t, uint32(1), v1) // second bit of 0x40 (binary 0100 0000) is 1

	packed, ok := raw.ColorTable().Get(1)
	require.True(t, ok)
	require.Equal(t, uint32(0x090909), packed)
}

func TestParse_InvalidChannelMasks_Zero(t *testing.T) {
	masks := &ChannelMasks{Red: 0, Green: rgb565GreenMask, Blue: rgb565BlueMask}
	buf := bmpBuilder{
		width: 1, height: 1, bpp: 16, compression: BI_BITFIELDS, masks: masks,
		pixels: []byte{0, 0},
	}.build(t)
	_, err := Parse(buf)
	var pe ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrInvalidChannelMasks, pe.Kind)
}

func TestParse_InvalidChannelMasks_Overlapping(t *testing.T) {
	masks := &ChannelMasks{Red: 0xF800, Green: 0x0800, Blue: 0x001F} // Red and Green share bit 0x0800
	buf := bmpBuilder{
		width: 1, height: 1, bpp: 16, compression: BI_BITFIELDS, masks: masks,
		pixels: []byte{0, 0},
	}.build(t)
	_, err := Parse(buf)
	var pe ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrInvalidChannelMasks, pe.Kind)
}

func TestParse_RowStrideMultipleOfFour(t *testing.T) {
	for _, bpp := range []uint16{1, 4, 8, 16, 24, 32} {
		for width := int32(1); width <= 33; width++ {
			stride := rowStrideFor(int(width), int(bpp))
			pixels := make([]byte, stride)
			palette := []byte(nil)
			if bpp <= 8 {
				palette = make([]byte, (1<<bpp)*4)
			}
			buf := bmpBuilder{
				width: width, height: 1, bpp: bpp, compression: BI_RGB,
				palette: palette, pixels: pixels,
			}.build(t)

			raw, err := Parse(buf)
			require.NoError(t, err)
			require.Zero(t, raw.Header().RowStride%4)
			require.GreaterOrEqual(t, raw.Header().RowStride, (int(width)*int(bpp)+7)/8)
		}
	}
}
