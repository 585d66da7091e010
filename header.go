package pixsecret

import (
	"github.com/zedseven/pixsecret/internal/algos"
)

// The length header is 22 bit-triples, most-significant first. The working value is shifted before every
// write and the top byte handed to writeTriple, so the 66-bit stream is the length shifted up by 3 and the
// bits pushed out of the register are lost. Reading folds the triples back into 64 bits (dropping the two
// oldest triples' overflow) and shifts the padding out. The result round-trips every length below 2^59,
// which no addressable carrier can exceed. Any change here breaks previously encoded images.

// writeLengthHeader writes length into the next headerTriples pixels handed out by pos.
func writeLengthHeader(pixels []Pixel, pos algos.Addressor, length uint64) error {
	for i := 0; i < headerTriples; i++ {
		length <<= 3
		addr, err := pos()
		if err != nil {
			return err
		}
		writeTriple(&pixels[addr], uint8(length>>56))
	}
	return nil
}

// readLengthHeader reads a length back from the next headerTriples pixels handed out by pos.
func readLengthHeader(pixels []Pixel, pos algos.Addressor) (uint64, error) {
	var length uint64
	for i := 0; i < headerTriples; i++ {
		addr, err := pos()
		if err != nil {
			return 0, err
		}
		length = length<<3 | readTriple(pixels[addr])
	}
	return length >> headerPadShift, nil
}
