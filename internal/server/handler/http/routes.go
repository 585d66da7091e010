package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zedseven/pixsecret/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the steganography API.
//
// Routes:
//
//	POST /encode   → stegHandler.Encode (application/json)
//	POST /decode   → stegHandler.Decode (image/bmp, image/jpeg, image/jpg)
//
// Every request goes through WithRequestLogging.
func NewRouter(stegHandler *StegHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)

	r.With(chiMiddleware.AllowContentType("application/json")).Post("/encode", stegHandler.Encode)
	r.With(chiMiddleware.AllowContentType(mimeBMP, mimeJPEG, mimeJPG)).Post("/decode", stegHandler.Decode)

	return r
}
