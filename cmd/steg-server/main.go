// Package main starts the steganography HTTP server.
package main

import (
	"cmp"
	"fmt"
	nethttp "net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/zedseven/pixsecret"
	"github.com/zedseven/pixsecret/bridge"
	"github.com/zedseven/pixsecret/internal/config"
	"github.com/zedseven/pixsecret/internal/logger"
	"github.com/zedseven/pixsecret/internal/server/handler/http"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Build version: %s (codec %s)\n", cmp.Or(version, "N/A"), pixsecret.Version())
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(2)
	}
	zapLogger := log.Log

	codecLog := zapLogger.Named("codec")
	codec := bridge.New(func(msg string) { codecLog.Info(msg) })

	stegHandler := &http.StegHandler{Codec: codec, MaxImageBytes: options.MaxImageBytes}
	router := http.NewRouter(stegHandler, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
