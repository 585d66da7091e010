package imgio

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"io"

	"lukechampine.com/jsteg"

	"github.com/zedseven/pixsecret"
)

// HideJPEG decodes the JPEG in r, hides the length-prefixed secret in its DCT coefficients and writes the
// re-encoded JPEG to w. quality <= 0 uses the encoder default.
func HideJPEG(w io.Writer, r io.Reader, secret string, quality int) error {
	img, err := jpeg.Decode(r)
	if err != nil {
		return &UnsupportedFormatError{fmt.Sprintf("The image couldn't be decoded as a JPEG: %v", err)}
	}

	framed, err := pixsecret.FrameSecret(secret)
	if err != nil {
		return err
	}

	var opts *jpeg.Options
	if quality > 0 {
		opts = &jpeg.Options{Quality: quality}
	}

	if c := jsteg.Capacity(img, opts); c < len(framed) {
		return &pixsecret.InsufficientHidingSpotsError{AdditionalInfo: fmt.Sprintf("The secret needs %d bytes "+
			"but the image can only carry %d.", len(framed), c)}
	}

	return jsteg.Hide(w, img, framed, opts)
}

// RevealJPEG recovers a secret hidden by HideJPEG. The hidden bytes are handed to the accumulator one at a
// time, in the order jsteg extracts them, until the secret is complete.
func RevealJPEG(r io.Reader) (string, error) {
	hidden, err := jsteg.Reveal(r)
	if err != nil {
		return "", &UnsupportedFormatError{fmt.Sprintf("No data could be revealed from the JPEG: %v", err)}
	}
	return pixsecret.ReadSecret(bytes.NewReader(hidden))
}
