// Package config provides functionality for managing configuration options
// for the server using command-line flags, a JSON config file and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
)

const defaultMaxImageBytes = 32 << 20

// Options holds the configuration values for the server.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string `json:"address"`

	// LogLevel is the minimum zap level that gets logged.
	LogLevel string `json:"log_level"`

	// MaxImageBytes caps the size of request bodies.
	MaxImageBytes int64 `json:"max_image_bytes"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// Parse parses args, then overlays the JSON config file (if one exists) and finally
// environment variables, in that order of increasing precedence.
func Parse(args []string) (*Options, error) {
	options := &Options{}

	fs := flag.NewFlagSet("steg-server", flag.ContinueOnError)
	fs.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&options.LogLevel, "l", "info", "log level")
	fs.Int64Var(&options.MaxImageBytes, "max-image-bytes", defaultMaxImageBytes, "largest accepted image")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Addr = serverAddress
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		options.LogLevel = logLevel
	}
	if maxBytes := os.Getenv("MAX_IMAGE_BYTES"); maxBytes != "" {
		n, err := strconv.ParseInt(maxBytes, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_IMAGE_BYTES: %w", err)
		}
		options.MaxImageBytes = n
	}

	if options.MaxImageBytes <= 0 {
		return nil, fmt.Errorf("max image bytes must be positive, got %d", options.MaxImageBytes)
	}

	return options, nil
}
