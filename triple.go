package pixsecret

import (
	"github.com/zedseven/binmani"
)

// writeTriple stores the three most-significant bits of value in the LSBs of p's channels: bit 7 goes to the
// first channel, bit 6 to the second and bit 5 to the third. Nothing else in the pixel changes.
func writeTriple(p *Pixel, value uint8) {
	for c := range p {
		bit := binmani.ReadFrom(uint16(value), bitsPerByte-1-uint8(c), 1)
		p[c] = uint8(binmani.WriteTo(uint16(p[c]), 0, 1, bit))
	}
}

// readTriple assembles the channel LSBs of p into a 3-bit value, first channel highest.
func readTriple(p Pixel) uint64 {
	var v uint64
	for c := range p {
		v = v<<1 | uint64(binmani.ReadFrom(uint16(p[c]), 0, 1))
	}
	return v
}
