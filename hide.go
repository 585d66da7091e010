package pixsecret

import (
	"fmt"
	"math/bits"
	"unicode/utf8"

	"github.com/zedseven/pixsecret/internal/algos"
	"github.com/zedseven/pixsecret/internal/util"
)

// Capacity returns the length in bytes of the longest secret g can carry.
func Capacity(g *Grid) int {
	if g == nil {
		return 0
	}
	return util.Max(0, (len(g.Pix)-headerTriples)/pixelsPerByte)
}

// EncodeSecret hides secret in g. The length header takes the first 22 pixels in row-major order and every
// secret byte the 3 pixels after that. Only channel LSBs are changed.
//
// The secret and the grid are validated before any pixel is touched, so on error g is left as it was.
func EncodeSecret(secret string, g *Grid) error {
	// Input validation
	if g == nil {
		return &InvalidFormatError{"Grid is nil."}
	}
	if !utf8.ValidString(secret) {
		return &InvalidFormatError{"The secret is not valid UTF-8."}
	}
	if err := checkLength(uint64(len(secret))); err != nil {
		return err
	}
	if maxLen := Capacity(g); len(secret) > maxLen {
		return &InsufficientHidingSpotsError{AdditionalInfo: fmt.Sprintf("The secret is %d bytes long "+
			"but a %dx%d image can only carry %d.", len(secret), g.W, g.H, maxLen)}
	}

	pos := algos.Sequential(int64(len(g.Pix)))

	if err := writeLengthHeader(g.Pix, pos, uint64(len(secret))); err != nil {
		return hidingErr(err)
	}

	for i := 0; i < len(secret); i++ {
		b := secret[i]
		// 9 bits for 8: the last pixel carries bits 1-0 and a zero.
		for _, v := range [pixelsPerByte]uint8{b, b << 3, b << 6} {
			addr, err := pos()
			if err != nil {
				return hidingErr(err)
			}
			writeTriple(&g.Pix[addr], v)
		}
	}

	return nil
}

// Helper functions

// checkLength rejects secrets whose bit length overflows 64 bits.
func checkLength(n uint64) error {
	if hi, _ := bits.Mul64(n, uint64(bitsPerByte)); hi != 0 {
		return &LengthOverflowError{Length: n}
	}
	return nil
}

func hidingErr(err error) error {
	switch err.(type) {
	case *algos.EmptyPoolError:
		return &InsufficientHidingSpotsError{InnerError: err}
	default:
		return err
	}
}
