package pixsecret

import (
	"fmt"
	"unicode/utf8"

	"github.com/zedseven/pixsecret/internal/algos"
)

// DecodeSecret recovers a secret previously hidden in g by EncodeSecret.
//
// A grid that never carried a secret almost always fails, either because the header claims more bytes than
// the grid holds or because the payload isn't UTF-8. A header of zero is indistinguishable from an embedded
// empty secret and decodes to "".
func DecodeSecret(g *Grid) (string, error) {
	if g == nil {
		return "", &InvalidFormatError{"Grid is nil."}
	}

	pos := algos.Sequential(int64(len(g.Pix)))

	length, err := readLengthHeader(g.Pix, pos)
	if err != nil {
		return "", hidingErr(err)
	}

	// Checked up front so a garbage header can't trigger a huge allocation.
	if maxLen := Capacity(g); length > uint64(maxLen) {
		return "", &InsufficientHidingSpotsError{AdditionalInfo: fmt.Sprintf("The header claims %d bytes "+
			"but a %dx%d image can only carry %d.", length, g.W, g.H, maxLen)}
	}

	secret := make([]byte, length)
	for i := range secret {
		var b uint8
		for j := 0; j < pixelsPerByte; j++ {
			addr, err := pos()
			if err != nil {
				return "", hidingErr(err)
			}
			t := uint8(readTriple(g.Pix[addr]))
			switch j {
			case 0:
				b = t << 5
			case 1:
				b |= t << 2
			default:
				// low bit is the zero written as padding
				b |= t >> 1
			}
		}
		secret[i] = b
	}

	if !utf8.Valid(secret) {
		return "", &InvalidSecretError{Length: len(secret)}
	}

	return string(secret), nil
}
