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
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ostafen/bmpcore/internal/bmp"
	"github.com/ostafen/bmpcore/internal/logger"
	"github.com/spf13/cobra"
)

func newInspectCommand(logFor func() *logger.Logger) *cobra.Command {
	var pixelFlag string
	var dumpPalette bool
	var sum bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Decode a BMP file and print its header, palette, or pixels",
		Long: `The 'inspect' command decodes a BMP file's header and, depending on the
flags given, prints a tabular summary of it, one pixel's raw and normalized
value, every color-table entry, or a checksum over the whole pixel array.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logFor()
			path := args[0]

			log.Debugf("reading %s", path)
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			raw, err := bmp.Parse(data)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			log.Infof("decoded %s: %dx%d, %d bpp", path, raw.Header().Width, raw.Header().Height, raw.Header().Bpp)

			switch {
			case pixelFlag != "":
				return runInspectPixel(cmd, raw, pixelFlag)
			case dumpPalette:
				return runDumpPalette(cmd, raw)
			case sum:
				return runSum(cmd, raw)
			default:
				return runHeaderSummary(cmd, raw)
			}
		},
	}

	cmd.Flags().StringVar(&pixelFlag, "pixel", "", "print the pixel at x,y (e.g. --pixel 3,2)")
	cmd.Flags().BoolVar(&dumpPalette, "dump-palette", false, "print every color-table entry as 0xRRGGBB")
	cmd.Flags().BoolVar(&sum, "sum", false, "walk every pixel once and print a checksum")
	return cmd
}

func runHeaderSummary(cmd *cobra.Command, raw *bmp.RawBmp) error {
	h := raw.Header()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Width\t%d\n", h.Width)
	fmt.Fprintf(w, "Height\t%d\n", h.Height)
	fmt.Fprintf(w, "RowOrder\t%s\n", h.RowOrder)
	fmt.Fprintf(w, "Bpp\t%d\n", h.Bpp)
	fmt.Fprintf(w, "Compression\t%d\n", h.Compression)
	fmt.Fprintf(w, "RowStride\t%d\n", h.RowStride)
	fmt.Fprintf(w, "FileSize\t%d\n", h.FileSize)
	fmt.Fprintf(w, "ImageDataStart\t%d\n", h.ImageDataStart)
	fmt.Fprintf(w, "ImageDataLen\t%d\n", h.ImageDataLen)
	fmt.Fprintf(w, "ColorsUsed\t%d\n", h.ColorsUsed)
	fmt.Fprintf(w, "ColorsImportant\t%d\n", h.ColorsImportant)
	if h.ChannelMasks != nil {
		m := h.ChannelMasks
		fmt.Fprintf(w, "RedMask\t0x%08X\n", m.Red)
		fmt.Fprintf(w, "GreenMask\t0x%08X\n", m.Green)
		fmt.Fprintf(w, "BlueMask\t0x%08X\n", m.Blue)
		fmt.Fprintf(w, "AlphaMask\t0x%08X\n", m.Alpha)
	}
	if h.ColorSpaceType != 0 || h.Intent != 0 {
		fmt.Fprintf(w, "ColorSpaceType\t0x%08X\n", h.ColorSpaceType)
		fmt.Fprintf(w, "Intent\t%d\n", h.Intent)
	}
	if ct := raw.ColorTable(); ct != nil {
		fmt.Fprintf(w, "ColorTableEntries\t%d\n", ct.Len())
	}
	return w.Flush()
}

func runInspectPixel(cmd *cobra.Command, raw *bmp.RawBmp, spec string) error {
	x, y, err := parsePoint(spec)
	if err != nil {
		return err
	}

	rawVal, ok := raw.Pixel(x, y)
	if !ok {
		return fmt.Errorf("pixel (%d,%d) is out of bounds for a %dx%d image", x, y, raw.Header().Width, raw.Header().Height)
	}

	view := bmp.NewBmp(raw, bmp.RGB888Converter)
	color, _ := view.Pixel(x, y)

	fmt.Fprintf(cmd.OutOrStdout(), "raw\t0x%08X\n", rawVal)
	fmt.Fprintf(cmd.OutOrStdout(), "rgb888\t#%02X%02X%02X\n", color.R, color.G, color.B)
	return nil
}

func parsePoint(spec string) (int, int, error) {
	parts := strings.SplitN(spec, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid --pixel value %q, want x,y", spec)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --pixel x coordinate %q: %w", parts[0], err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --pixel y coordinate %q: %w", parts[1], err)
	}
	return x, y, nil
}

func runDumpPalette(cmd *cobra.Command, raw *bmp.RawBmp) error {
	ct := raw.ColorTable()
	if ct == nil {
		return fmt.Errorf("image has no color table (bpp = %d)", raw.Header().Bpp)
	}

	out := cmd.OutOrStdout()
	for i := 0; i < ct.Len(); i++ {
		packed, _ := ct.Get(uint32(i))
		fmt.Fprintf(out, "%4d  0x%06X\n", i, packed)
	}
	return nil
}

func runSum(cmd *cobra.Command, raw *bmp.RawBmp) error {
	var count int
	var min, max uint32
	first := true

	for px := range raw.Pixels() {
		if first {
			min, max = px.Color, px.Color
			first = false
		} else {
			if px.Color < min {
				min = px.Color
			}
			if px.Color > max {
				max = px.Color
			}
		}
		count++
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "count\t%d\n", count)
	fmt.Fprintf(out, "min\t0x%08X\n", min)
	fmt.Fprintf(out, "max\t0x%08X\n", max)
	return nil
}
