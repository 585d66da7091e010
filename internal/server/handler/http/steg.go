// Package http provides the HTTP handlers for hiding secrets in and recovering them from images.
package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/zedseven/pixsecret"
	"github.com/zedseven/pixsecret/imgio"
)

const (
	mimeBMP  = "image/bmp"
	mimeJPEG = "image/jpeg"
	mimeJPG  = "image/jpg"
)

// Codec defines the encode/decode operations required by the StegHandler.
type Codec interface {
	EncodeSecretIntoBMP(secret string, image []byte) ([]byte, error)
	DecodeSecretFromBMP(image []byte) (string, error)
	EncodeSecretIntoJPEG(secret string, image []byte) ([]byte, error)
	DecodeSecretFromJPEG(image []byte) (string, error)
}

// StegHandler handles the encode and decode endpoints.
type StegHandler struct {
	Codec Codec
	// MaxImageBytes caps request bodies; 0 means no limit.
	MaxImageBytes int64
}

// EncodeReq is the body of POST /encode.
type EncodeReq struct {
	Secret             string `json:"secret"`
	ImageBase64Encoded string `json:"imageBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

// Encode handles POST /encode requests.
// It decodes the image from the JSON body, hides the secret in it and
// returns the encoded image as a file of the same mime type.
func (h *StegHandler) Encode(w http.ResponseWriter, r *http.Request) {
	var req EncodeReq
	if err := json.NewDecoder(h.limit(w, r)).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBase64Encoded)
	if err != nil {
		http.Error(w, "image is not valid base64", http.StatusBadRequest)
		return
	}

	var (
		encoded  []byte
		fileName string
	)
	mimeType := strings.ToLower(req.MimeType)
	switch mimeType {
	case mimeBMP:
		encoded, err = h.Codec.EncodeSecretIntoBMP(req.Secret, image)
		fileName = "encoded_image.bmp"
	case mimeJPEG, mimeJPG:
		encoded, err = h.Codec.EncodeSecretIntoJPEG(req.Secret, image)
		fileName = "encoded_image.jpg"
	default:
		http.Error(w, unsupportedMimeMsg(req.MimeType), http.StatusUnsupportedMediaType)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	_, _ = w.Write(encoded)
}

// Decode handles POST /decode requests.
// The body is the raw image; its Content-Type picks the carrier.
// The recovered secret is written back as a JSON string.
func (h *StegHandler) Decode(w http.ResponseWriter, r *http.Request) {
	mimeType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		http.Error(w, "Content type is required.", http.StatusBadRequest)
		return
	}

	image, err := io.ReadAll(h.limit(w, r))
	if err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	var secret string
	switch mimeType {
	case mimeBMP:
		secret, err = h.Codec.DecodeSecretFromBMP(image)
	case mimeJPEG, mimeJPG:
		secret, err = h.Codec.DecodeSecretFromJPEG(image)
	default:
		http.Error(w, unsupportedMimeMsg(mimeType), http.StatusUnsupportedMediaType)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(secret)
}

func (h *StegHandler) limit(w http.ResponseWriter, r *http.Request) io.Reader {
	if h.MaxImageBytes <= 0 {
		return r.Body
	}
	// base64 inflates the image by a third
	return http.MaxBytesReader(w, r.Body, h.MaxImageBytes*4/3+1024)
}

func unsupportedMimeMsg(mimeType string) string {
	return fmt.Sprintf("Unsupported content type: %s. Supported types: %s, %s, %s.", mimeType, mimeBMP, mimeJPEG, mimeJPG)
}

// statusFor maps codec errors to response codes: bad input is the client's fault, a carrier that
// can't hold (or doesn't hold) a secret is unprocessable.
func statusFor(err error) int {
	var (
		hiding      *pixsecret.InsufficientHidingSpotsError
		overflow    *pixsecret.LengthOverflowError
		invalid     *pixsecret.InvalidSecretError
		format      *pixsecret.InvalidFormatError
		unsupported *imgio.UnsupportedFormatError
	)
	switch {
	case errors.As(err, &hiding), errors.As(err, &overflow), errors.As(err, &invalid):
		return http.StatusUnprocessableEntity
	case errors.As(err, &format), errors.As(err, &unsupported):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
