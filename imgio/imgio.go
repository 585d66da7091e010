// Package imgio converts carrier files to and from the forms the pixsecret codec works on: 24-bit bitmaps
// to pixel grids, and JPEGs to a stream of hidden bytes.
package imgio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"

	"golang.org/x/image/bmp"

	"github.com/zedseven/pixsecret"
)

const (
	FormatBMP  = "bmp"
	FormatJPEG = "jpeg"

	bmpHeader      = "BM"
	jpegHeader     = "\xff\xd8\xff"
	bmpBitCountOff = 28
	bmpCompressOff = 30
	bmpMinHeader   = bmpCompressOff + 4
	bmpBitCount    = 24
	bmpCompressRGB = 0
)

// Error types

// UnsupportedFormatError is returned for carriers the codec can't use, such as bitmaps that aren't
// uncompressed 24-bit.
type UnsupportedFormatError struct {
	ErrorDesc string
}

func (e *UnsupportedFormatError) Error() string {
	if len(e.ErrorDesc) > 0 {
		return e.ErrorDesc
	}
	return "The provided image format is not supported."
}

// Sniff returns FormatBMP or FormatJPEG based on the leading magic bytes of data, or "" if neither matches.
func Sniff(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte(bmpHeader)):
		return FormatBMP
	case bytes.HasPrefix(data, []byte(jpegHeader)):
		return FormatJPEG
	default:
		return ""
	}
}

// DecodeBMP reads an uncompressed 24-bit bitmap into a row-major grid, top row first.
func DecodeBMP(r io.Reader) (*pixsecret.Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if len(data) < bmpMinHeader || Sniff(data) != FormatBMP {
		return nil, &UnsupportedFormatError{"The image is not a BMP file."}
	}
	if bpp := binary.LittleEndian.Uint16(data[bmpBitCountOff:]); bpp != bmpBitCount {
		return nil, &UnsupportedFormatError{fmt.Sprintf("Only 24-bit bitmaps are supported: provided %d-bit.", bpp)}
	}
	if c := binary.LittleEndian.Uint32(data[bmpCompressOff:]); c != bmpCompressRGB {
		return nil, &UnsupportedFormatError{fmt.Sprintf("Only uncompressed bitmaps are supported: compression %d.", c)}
	}

	img, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode bmp: %w", err)
	}

	return imageToGrid(img), nil
}

// EncodeBMP writes g as an opaque 24-bit bitmap.
func EncodeBMP(w io.Writer, g *pixsecret.Grid) error {
	if g == nil || g.W*g.H != len(g.Pix) {
		return &pixsecret.InvalidFormatError{ErrorDesc: "The grid dimensions don't match its pixels."}
	}
	return bmp.Encode(w, gridToImage(g))
}

// Helper functions

func imageToGrid(img image.Image) *pixsecret.Grid {
	dims := img.Bounds()
	g := pixsecret.NewGrid(dims.Dx(), dims.Dy())

	// x/image/bmp hands 24-bit data back as RGBA; anything else goes through the colour model
	if simg, ok := img.(*image.RGBA); ok {
		for y := 0; y < g.H; y++ {
			row := simg.Pix[y*simg.Stride:]
			for x := 0; x < g.W; x++ {
				g.Set(x, y, pixsecret.Pixel{row[4*x], row[4*x+1], row[4*x+2]})
			}
		}
		return g
	}

	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			r, gr, b, _ := img.At(dims.Min.X+x, dims.Min.Y+y).RGBA()
			g.Set(x, y, pixsecret.Pixel{uint8(r >> 8), uint8(gr >> 8), uint8(b >> 8)})
		}
	}
	return g
}

func gridToImage(g *pixsecret.Grid) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	for i, p := range g.Pix {
		copy(img.Pix[4*i:], []uint8{p[0], p[1], p[2], 0xff})
	}
	return img
}
