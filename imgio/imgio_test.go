package imgio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/zedseven/pixsecret"
)

// coverBMP builds a w x h 24-bit bitmap whose channels are all odd, so the header of an untouched cover
// reads as an impossible length.
func coverBMP(t *testing.T, w, h int) []byte {
	t.Helper()
	rnd := rand.New(rand.NewSource(7))
	g := pixsecret.NewGrid(w, h)
	for i := range g.Pix {
		g.Pix[i] = pixsecret.Pixel{uint8(rnd.Intn(256)) | 1, uint8(rnd.Intn(256)) | 1, uint8(rnd.Intn(256)) | 1}
	}
	var buf bytes.Buffer
	require.NoError(t, EncodeBMP(&buf, g))
	return buf.Bytes()
}

func TestSniff(t *testing.T) {
	assert.Equal(t, FormatBMP, Sniff([]byte("BM....")))
	assert.Equal(t, FormatJPEG, Sniff([]byte{0xff, 0xd8, 0xff, 0xe0}))
	assert.Equal(t, "", Sniff([]byte("\x89PNG")))
	assert.Equal(t, "", Sniff(nil))
}

func TestBMPRoundTrip(t *testing.T) {
	g := pixsecret.NewGrid(5, 3)
	for i := range g.Pix {
		g.Pix[i] = pixsecret.Pixel{uint8(i), uint8(10 * i), uint8(255 - i)}
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeBMP(&buf, g))
	assert.Equal(t, uint16(24), binary.LittleEndian.Uint16(buf.Bytes()[bmpBitCountOff:]))

	got, err := DecodeBMP(&buf)
	require.NoError(t, err)
	assert.Equal(t, g, got)
}

func TestBMPSecretPipeline(t *testing.T) {
	cover := coverBMP(t, 16, 16)

	g, err := DecodeBMP(bytes.NewReader(cover))
	require.NoError(t, err)
	require.NoError(t, pixsecret.EncodeSecret("foo", g))

	var out bytes.Buffer
	require.NoError(t, EncodeBMP(&out, g))
	assert.NotEqual(t, cover, out.Bytes())
	assert.Equal(t, len(cover), out.Len())

	g, err = DecodeBMP(&out)
	require.NoError(t, err)
	secret, err := pixsecret.DecodeSecret(g)
	require.NoError(t, err)
	assert.Equal(t, "foo", secret)
}

func TestUntouchedCoverHasNoSecret(t *testing.T) {
	g, err := DecodeBMP(bytes.NewReader(coverBMP(t, 16, 16)))
	require.NoError(t, err)

	_, err = pixsecret.DecodeSecret(g)
	assert.Error(t, err)
	var hiding *pixsecret.InsufficientHidingSpotsError
	assert.True(t, errors.As(err, &hiding))
}

func TestDecodeBMPRejectsOtherDepths(t *testing.T) {
	// translucent RGBA is written as 32-bit
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{1, 2, 3, 4})
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, img))

	_, err := DecodeBMP(&buf)
	var unsupported *UnsupportedFormatError
	require.True(t, errors.As(err, &unsupported))
	assert.Contains(t, unsupported.Error(), "32-bit")
}

func TestDecodeBMPRejectsCompressed(t *testing.T) {
	data := coverBMP(t, 4, 4)
	binary.LittleEndian.PutUint32(data[bmpCompressOff:], 1)

	_, err := DecodeBMP(bytes.NewReader(data))
	assert.IsType(t, &UnsupportedFormatError{}, err)
}

func TestDecodeBMPRejectsGarbage(t *testing.T) {
	_, err := DecodeBMP(bytes.NewReader([]byte("definitely not an image, but long enough")))
	assert.IsType(t, &UnsupportedFormatError{}, err)

	_, err = DecodeBMP(bytes.NewReader([]byte("BM")))
	assert.IsType(t, &UnsupportedFormatError{}, err)
}

func TestEncodeBMPRejectsMismatchedGrid(t *testing.T) {
	err := EncodeBMP(&bytes.Buffer{}, &pixsecret.Grid{W: 3, H: 3, Pix: make([]pixsecret.Pixel, 4)})
	assert.IsType(t, &pixsecret.InvalidFormatError{}, err)
	assert.Error(t, EncodeBMP(&bytes.Buffer{}, nil))
}
