package bmp

import "testing"

func putU16(buf []byte, off int, v uint16) {
	buf[off] = byte(v)
	buf[off+1] = byte(v >> 8)
}

func putU32(buf []byte, off int, v uint32) {
	buf[off] = byte(v)
	buf[off+1] = byte(v >> 8)
	buf[off+2] = byte(v >> 16)
	buf[off+3] = byte(v >> 24)
}

func putI32(buf []byte, off int, v int32) {
	putU32(buf, off, uint32(v))
}

// bmpBuilder assembles a minimal, valid BITMAPINFOHEADER-style BMP byte
// buffer: 14-byte file header + 40-byte info header + an optional
// BI_BITFIELDS/BI_ALPHABITFIELDS mask segment + an optional palette + pixel
// data, all laid out exactly as Windows writes them.
type bmpBuilder struct {
	width, height int32 // height may be negative (top-down)
	bpp           uint16
	compression   uint32
	imageSize     uint32        // 0 lets the decoder compute it
	masks         *ChannelMasks // nil writes RGB565 masks (alpha 0xFF000000 under BI_ALPHABITFIELDS)
	palette       []byte        // raw B,G,R,0 entries
	pixels        []byte        // file-order row data, already padded to rowStride
}

func (b bmpBuilder) build(t *testing.T) []byte {
	t.Helper()

	maskBytes := 0
	switch b.compression {
	case BI_BITFIELDS:
		maskBytes = 12
	case BI_ALPHABITFIELDS:
		maskBytes = 16
	}

	dataOffset := fileHeaderLen + dibHeaderInfo + maskBytes + len(b.palette)
	total := dataOffset + len(b.pixels)

	buf := make([]byte, total)
	buf[0], buf[1] = 'B', 'M'
	putU32(buf, 2, uint32(total))
	putU32(buf, 10, uint32(dataOffset))

	const dib = fileHeaderLen
	putU32(buf, dib, dibHeaderInfo)
	putI32(buf, dib+4, b.width)
	putI32(buf, dib+8, b.height)
	putU16(buf, dib+12, 1)
	putU16(buf, dib+14, b.bpp)
	putU32(buf, dib+16, b.compression)
	putU32(buf, dib+20, b.imageSize)

	m := b.masks
	if m == nil {
		m = &ChannelMasks{Red: rgb565RedMask, Green: rgb565GreenMask, Blue: rgb565BlueMask, Alpha: 0xFF000000}
	}

	off := dib + dibHeaderInfo
	switch b.compression {
	case BI_BITFIELDS:
		putU32(buf, off, m.Red)
		putU32(buf, off+4, m.Green)
		putU32(buf, off+8, m.Blue)
		off += 12
	case BI_ALPHABITFIELDS:
		putU32(buf, off, m.Red)
		putU32(buf, off+4, m.Green)
		putU32(buf, off+8, m.Blue)
		putU32(buf, off+12, m.Alpha)
		off += 16
	}

	off += copy(buf[off:], b.palette)
	copy(buf[off:], b.pixels)

	return buf
}

func rowStrideFor(width, bpp int) int {
	return ((width*bpp + 31) / 32) * 4
}
