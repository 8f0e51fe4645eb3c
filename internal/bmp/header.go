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

// BMP compression codes. Only BI_RGB, BI_BITFIELDS and BI_ALPHABITFIELDS are
// supported by this decoder; the rest are recognized so Parse can report
// "recognized but unsupported" instead of treating a valid BMP as garbage.
const (
	BI_RGB            = 0
	BI_RLE8           = 1
	BI_RLE4           = 2
	BI_BITFIELDS      = 3
	BI_JPEG           = 4
	BI_PNG            = 5
	BI_ALPHABITFIELDS = 6
	BI_CMYK           = 11
	BI_CMYKRLE8       = 12
	BI_CMYKRLE4       = 13
)

// compressionName names every compression code this decoder recognizes but
// doesn't implement, so ParseError can report "recognized but unsupported:
// RLE8" instead of just "unsupported: 1" for a valid BMP it can't decode. A
// code absent from this table is genuinely unknown, not merely unsupported.
var compressionName = map[uint32]string{
	BI_RLE8:     "RLE8",
	BI_RLE4:     "RLE4",
	BI_JPEG:     "JPEG",
	BI_PNG:      "PNG",
	BI_CMYK:     "CMYK",
	BI_CMYKRLE8: "CMYKRLE8",
	BI_CMYKRLE4: "CMYKRLE4",
}

// DIB (info) header sizes this decoder recognizes.
const (
	dibHeaderCore = 12  // BITMAPCOREHEADER (OS/2 v1)
	dibHeaderInfo = 40  // BITMAPINFOHEADER
	dibHeaderV2   = 52  // BITMAPV2INFOHEADER (undocumented, RGB masks)
	dibHeaderV3   = 56  // BITMAPV3INFOHEADER (RGB + alpha masks)
	dibHeaderV4   = 108 // BITMAPV4HEADER
	dibHeaderV5   = 124 // BITMAPV5HEADER
)

const fileHeaderLen = 14

// RowOrder records how rows are stored in the pixel array. BottomUp is the
// BMP default; TopDown is signalled by a negative height in the DIB header.
type RowOrder int

const (
	BottomUp RowOrder = iota
	TopDown
)

func (o RowOrder) String() string {
	if o == TopDown {
		return "TopDown"
	}
	return "BottomUp"
}

// ChannelMasks gives the bit position of each color channel within a 16- or
// 32-bit pixel. Present only under BI_BITFIELDS/BI_ALPHABITFIELDS, or when
// the DIB header is a V4/V5 header (which always carries mask fields).
type ChannelMasks struct {
	Red, Green, Blue, Alpha uint32
}

// Header is the normalized, validated result of decoding a BMP file header
// and DIB header. It is a plain value type; nothing it holds is borrowed
// from the input beyond the ChannelMasks pointer, itself owned by the
// Header and not the input slice.
type Header struct {
	FileSize        uint32
	ImageDataStart  uint32
	ImageDataLen    uint32
	Bpp             int
	Width           int
	Height          int
	RowStride       int
	RowOrder        RowOrder
	Compression     uint32
	ChannelMasks    *ChannelMasks
	ColorsUsed      uint32
	ColorsImportant uint32
	// ColorSpaceType and Intent are populated only for BITMAPV4HEADER /
	// BITMAPV5HEADER; both are 0 for every other DIB header variant. Neither
	// is interpreted (no gamma correction or ICC profile handling).
	ColorSpaceType uint32
	Intent         uint32

	// isCoreHeader is true for a 12-byte BITMAPCOREHEADER, whose palette
	// entries are 3 bytes (B,G,R) instead of 4 (B,G,R,reserved).
	isCoreHeader bool
}

// colorEntrySize returns the palette entry width in bytes for this header's
// DIB variant: 3 (B,G,R) for BITMAPCOREHEADER, 4 (B,G,R,reserved) otherwise.
func (h *Header) colorEntrySize() int {
	if h.isCoreHeader {
		return 3
	}
	return 4
}

// parsedHeader bundles the normalized Header with the byte range of the
// color table, computed during parsing but not part of the public Header.
type parsedHeader struct {
	Header     Header
	tableStart int
}

func roundUpToMultiple(n, m int) int {
	return (n + m - 1) / m * m
}

// parseHeader decodes the BMP file header and DIB header starting at offset
// 0 of r. It performs every header-level validation except the final
// image-data-length bound and the color-table check, which Parse performs
// once it knows the total input length.
func parseHeader(r byteReader) (parsedHeader, error) {
	var out parsedHeader

	if err := r.require(0, fileHeaderLen); err != nil {
		return out, err
	}
	sig0, _ := r.readU8(0)
	sig1, _ := r.readU8(1)
	if sig0 != 'B' || sig1 != 'M' {
		return out, ParseError{Kind: ErrInvalidFileSignature}
	}

	fileSize, err := r.readU32(2)
	if err != nil {
		return out, err
	}
	imageDataStart, err := r.readU32(10)
	if err != nil {
		return out, err
	}

	dibSize, err := r.readU32(fileHeaderLen)
	if err != nil {
		return out, err
	}

	switch dibSize {
	case dibHeaderCore, dibHeaderInfo, dibHeaderV2, dibHeaderV3, dibHeaderV4, dibHeaderV5:
	default:
		return out, ParseError{Kind: ErrUnsupportedDibHeaderSize, Arg: dibSize}
	}

	dibStart := fileHeaderLen
	if err := r.require(dibStart, int(dibSize)); err != nil {
		return out, err
	}

	isCore := dibSize == dibHeaderCore
	h := Header{
		FileSize:       fileSize,
		ImageDataStart: imageDataStart,
		isCoreHeader:   isCore,
	}

	tableStart := dibStart + int(dibSize)

	if isCore {
		width16, err := r.readI16(dibStart + 4)
		if err != nil {
			return out, err
		}
		height16, err := r.readI16(dibStart + 6)
		if err != nil {
			return out, err
		}
		planes, err := r.readU16(dibStart + 8)
		if err != nil {
			return out, err
		}
		bpp, err := r.readU16(dibStart + 10)
		if err != nil {
			return out, err
		}
		if planes != 1 {
			return out, ParseError{Kind: ErrInvalidImageDimensions}
		}
		h.Width = int(width16)
		h.Height = int(height16)
		h.Bpp = int(bpp)
		h.Compression = BI_RGB
	} else {
		width, err := r.readI32(dibStart + 4)
		if err != nil {
			return out, err
		}
		height, err := r.readI32(dibStart + 8)
		if err != nil {
			return out, err
		}
		planes, err := r.readU16(dibStart + 12)
		if err != nil {
			return out, err
		}
		bpp, err := r.readU16(dibStart + 14)
		if err != nil {
			return out, err
		}
		compression, err := r.readU32(dibStart + 16)
		if err != nil {
			return out, err
		}
		imageSize, err := r.readU32(dibStart + 20)
		if err != nil {
			return out, err
		}
		colorsUsed, err := r.readU32(dibStart + 32)
		if err != nil {
			return out, err
		}
		colorsImportant, err := r.readU32(dibStart + 36)
		if err != nil {
			return out, err
		}

		if planes != 1 {
			return out, ParseError{Kind: ErrInvalidImageDimensions}
		}

		switch compression {
		case BI_RGB, BI_BITFIELDS, BI_ALPHABITFIELDS:
		default:
			return out, ParseError{Kind: ErrUnsupportedCompressionMethod, Arg: compression}
		}

		h.Width = int(width)
		h.Height = int(height)
		h.Bpp = int(bpp)
		h.Compression = compression
		h.ImageDataLen = imageSize
		h.ColorsUsed = colorsUsed
		h.ColorsImportant = colorsImportant

		switch {
		case dibSize >= dibHeaderV2:
			// V2/V3/V4/V5 carry RGB mask fields right after the fixed 40
			// bytes, and an alpha mask from V3 onward.
			redMask, err := r.readU32(dibStart + 40)
			if err != nil {
				return out, err
			}
			greenMask, err := r.readU32(dibStart + 44)
			if err != nil {
				return out, err
			}
			blueMask, err := r.readU32(dibStart + 48)
			if err != nil {
				return out, err
			}
			var alphaMask uint32
			if dibSize >= dibHeaderV3 {
				alphaMask, err = r.readU32(dibStart + 52)
				if err != nil {
					return out, err
				}
			}
			if compression == BI_BITFIELDS || compression == BI_ALPHABITFIELDS || dibSize >= dibHeaderV4 {
				h.ChannelMasks = &ChannelMasks{Red: redMask, Green: greenMask, Blue: blueMask, Alpha: alphaMask}
			}
			if dibSize >= dibHeaderV4 {
				colorSpaceType, err := r.readU32(dibStart + 56)
				if err != nil {
					return out, err
				}
				h.ColorSpaceType = colorSpaceType
			}
			if dibSize >= dibHeaderV5 {
				intent, err := r.readU32(dibStart + 108)
				if err != nil {
					return out, err
				}
				h.Intent = intent
			}
		case compression == BI_BITFIELDS:
			// Classic 40-byte BITMAPINFOHEADER with BI_BITFIELDS: three
			// 32-bit masks follow the header, before the color table.
			redMask, err := r.readU32(tableStart)
			if err != nil {
				return out, err
			}
			greenMask, err := r.readU32(tableStart + 4)
			if err != nil {
				return out, err
			}
			blueMask, err := r.readU32(tableStart + 8)
			if err != nil {
				return out, err
			}
			h.ChannelMasks = &ChannelMasks{Red: redMask, Green: greenMask, Blue: blueMask}
			tableStart += 12
		case compression == BI_ALPHABITFIELDS:
			redMask, err := r.readU32(tableStart)
			if err != nil {
				return out, err
			}
			greenMask, err := r.readU32(tableStart + 4)
			if err != nil {
				return out, err
			}
			blueMask, err := r.readU32(tableStart + 8)
			if err != nil {
				return out, err
			}
			alphaMask, err := r.readU32(tableStart + 12)
			if err != nil {
				return out, err
			}
			h.ChannelMasks = &ChannelMasks{Red: redMask, Green: greenMask, Blue: blueMask, Alpha: alphaMask}
			tableStart += 16
		}
	}

	if h.Width <= 0 || h.Height == 0 {
		return out, ParseError{Kind: ErrInvalidImageDimensions}
	}

	switch h.Bpp {
	case 1, 4, 8, 16, 24, 32:
	default:
		return out, ParseError{Kind: ErrUnsupportedBpp, Arg: uint32(h.Bpp)}
	}

	if h.ChannelMasks != nil {
		m := h.ChannelMasks
		if m.Red == 0 || m.Green == 0 || m.Blue == 0 {
			return out, ParseError{Kind: ErrInvalidChannelMasks}
		}
		if m.Red&m.Green != 0 || m.Red&m.Blue != 0 || m.Green&m.Blue != 0 {
			return out, ParseError{Kind: ErrInvalidChannelMasks}
		}
		if m.Alpha != 0 && (m.Alpha&m.Red != 0 || m.Alpha&m.Green != 0 || m.Alpha&m.Blue != 0) {
			return out, ParseError{Kind: ErrInvalidChannelMasks}
		}
	}

	if h.Height < 0 {
		h.RowOrder = TopDown
		h.Height = -h.Height
	} else {
		h.RowOrder = BottomUp
	}

	h.RowStride = roundUpToMultiple((h.Width*h.Bpp+7)/8, 4)
	if h.ImageDataLen == 0 {
		computed := int64(h.RowStride) * int64(h.Height)
		if computed > int64(^uint32(0)) {
			return out, ParseError{Kind: ErrTruncatedImageData}
		}
		h.ImageDataLen = uint32(computed)
	}

	out.Header = h
	out.tableStart = tableStart
	return out, nil
}
