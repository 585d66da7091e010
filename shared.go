// Package pixsecret hides a short UTF-8 secret in the least-significant bits of a 24-bit pixel grid, and
// recovers it bit-exactly. It also reconstructs length-prefixed secrets from carriers that can only deliver
// their payload one byte at a time.
package pixsecret

import (
	"fmt"
)

const (
	bitsPerByte uint8 = 8
	lengthBits        = 64
	// headerTriples is the number of pixels the length header occupies. 22 * 3 = 66 bits, the smallest
	// multiple of 3 covering a 64-bit length.
	headerTriples = (lengthBits + 2) / 3
	// headerPadShift drops the residual padding left in the low bits once the header has been folded back
	// into 64 bits.
	headerPadShift = 5
	// pixelsPerByte is the number of pixels each payload byte is spread across.
	pixelsPerByte = 3
	// streamHeaderSize is the size of the little-endian length prefix used on byte-stream carriers.
	streamHeaderSize = 8

	VersionMax uint8 = 1
	VersionMid uint8 = 0
	VersionMin uint8 = 0
)

// Shared types

// Pixel is one 24-bit sample: the red, green and blue channel values, in that order.
type Pixel [3]uint8

// Grid is a row-major pixel grid as produced by a container decoder.
type Grid struct {
	W, H int
	Pix  []Pixel
}

// NewGrid allocates a zeroed w x h grid.
func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, Pix: make([]Pixel, w*h)}
}

// At returns the pixel at (x, y).
func (g *Grid) At(x, y int) Pixel {
	return g.Pix[y*g.W+x]
}

// Set replaces the pixel at (x, y).
func (g *Grid) Set(x, y int, p Pixel) {
	g.Pix[y*g.W+x] = p
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{W: g.W, H: g.H, Pix: make([]Pixel, len(g.Pix))}
	copy(c.Pix, g.Pix)
	return c
}

// Error types

// InvalidFormatError is returned when the caller hands over something the codec can't work with.
type InvalidFormatError struct {
	ErrorDesc string
}

func (e *InvalidFormatError) Error() string {
	if len(e.ErrorDesc) > 0 {
		return e.ErrorDesc
	}
	return "The provided data is of an invalid format."
}

// InsufficientHidingSpotsError is returned when the carrier runs out of pixels (or bytes) before the header
// and payload have been fully written or read.
type InsufficientHidingSpotsError struct {
	AdditionalInfo string
	InnerError     error
}

func (e *InsufficientHidingSpotsError) Error() string {
	ret := "There is not enough space available in the carrier for the secret."
	if len(e.AdditionalInfo) > 0 && e.InnerError != nil {
		return fmt.Sprintf("%v Additional info: %v Inner error: %v", ret, e.AdditionalInfo, e.InnerError.Error())
	} else if len(e.AdditionalInfo) > 0 {
		return fmt.Sprintf("%v Additional info: %v", ret, e.AdditionalInfo)
	} else if e.InnerError != nil {
		return fmt.Sprintf("%v Inner error: %v", ret, e.InnerError.Error())
	}
	return ret
}

func (e *InsufficientHidingSpotsError) Unwrap() error {
	return e.InnerError
}

// LengthOverflowError is returned when the secret's bit length doesn't fit in 64 bits.
type LengthOverflowError struct {
	Length uint64
}

func (e *LengthOverflowError) Error() string {
	return fmt.Sprintf("The secret is too long to be embedded: %d bytes.", e.Length)
}

// InvalidSecretError is returned when the recovered payload isn't valid UTF-8, which means no valid secret
// could be found in the carrier.
type InvalidSecretError struct {
	Length int
}

func (e *InvalidSecretError) Error() string {
	return fmt.Sprintf("The recovered %d-byte payload is not valid UTF-8; no secret is present.", e.Length)
}

// Library methods

// Version returns the library version as a dotted string.
func Version() string {
	return fmt.Sprintf("%02d.%02d.%02d", VersionMax, VersionMid, VersionMin)
}
