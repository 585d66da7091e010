// Package bridge is the narrow boundary hosts call the codec through: string and byte-buffer arguments in,
// byte buffers or strings out, and a single logging callback for informational lines.
package bridge

import (
	"bytes"
	"fmt"

	"github.com/zedseven/pixsecret"
	"github.com/zedseven/pixsecret/imgio"
)

// LogFunc receives one informational line.
type LogFunc func(msg string)

// Bridge exposes the encode/decode entry points. The zero value discards log lines.
type Bridge struct {
	Log LogFunc
}

// New returns a Bridge that sends its log lines to log.
func New(log LogFunc) *Bridge {
	return &Bridge{Log: log}
}

// EncodeSecretIntoBMP hides secret in a 24-bit bitmap and returns the new bitmap.
func (b *Bridge) EncodeSecretIntoBMP(secret string, image []byte) ([]byte, error) {
	g, err := imgio.DecodeBMP(bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	b.logf("Encoding a %d-byte secret into a %dx%d bitmap (capacity %d bytes).", len(secret), g.W, g.H,
		pixsecret.Capacity(g))

	if err = pixsecret.EncodeSecret(secret, g); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Grow(len(image))
	if err = imgio.EncodeBMP(&out, g); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DecodeSecretFromBMP recovers the secret hidden in a 24-bit bitmap.
func (b *Bridge) DecodeSecretFromBMP(image []byte) (string, error) {
	g, err := imgio.DecodeBMP(bytes.NewReader(image))
	if err != nil {
		return "", err
	}
	b.logf("Decoding a secret from a %dx%d bitmap.", g.W, g.H)

	secret, err := pixsecret.DecodeSecret(g)
	if err != nil {
		return "", err
	}
	b.logf("Recovered a %d-byte secret.", len(secret))
	return secret, nil
}

// EncodeSecretIntoJPEG hides secret in a JPEG and returns the re-encoded JPEG.
func (b *Bridge) EncodeSecretIntoJPEG(secret string, image []byte) ([]byte, error) {
	b.logf("Encoding a %d-byte secret into a %d-byte JPEG.", len(secret), len(image))

	var out bytes.Buffer
	if err := imgio.HideJPEG(&out, bytes.NewReader(image), secret, 0); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DecodeSecretFromJPEG recovers the secret hidden in a JPEG.
func (b *Bridge) DecodeSecretFromJPEG(image []byte) (string, error) {
	b.logf("Decoding a secret from a %d-byte JPEG.", len(image))

	secret, err := imgio.RevealJPEG(bytes.NewReader(image))
	if err != nil {
		return "", err
	}
	b.logf("Recovered a %d-byte secret.", len(secret))
	return secret, nil
}

// EncodeSecret picks the carrier from the image's magic bytes.
func (b *Bridge) EncodeSecret(secret string, image []byte) ([]byte, error) {
	switch imgio.Sniff(image) {
	case imgio.FormatBMP:
		return b.EncodeSecretIntoBMP(secret, image)
	case imgio.FormatJPEG:
		return b.EncodeSecretIntoJPEG(secret, image)
	default:
		return nil, &imgio.UnsupportedFormatError{ErrorDesc: "Only BMP and JPEG images are supported."}
	}
}

// DecodeSecret picks the carrier from the image's magic bytes.
func (b *Bridge) DecodeSecret(image []byte) (string, error) {
	switch imgio.Sniff(image) {
	case imgio.FormatBMP:
		return b.DecodeSecretFromBMP(image)
	case imgio.FormatJPEG:
		return b.DecodeSecretFromJPEG(image)
	default:
		return "", &imgio.UnsupportedFormatError{ErrorDesc: "Only BMP and JPEG images are supported."}
	}
}

func (b *Bridge) logf(format string, args ...any) {
	if b.Log != nil {
		b.Log(fmt.Sprintf(format, args...))
	}
}
