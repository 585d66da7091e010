package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/zedseven/pixsecret"
	"github.com/zedseven/pixsecret/bridge"
	"github.com/zedseven/pixsecret/internal/logger"
)

const usage = `Usage:
  steg [-v] encode -s <secret> -i <image> [-o <out>]
  steg [-v] decode -i <image>
  steg -version

Images must be 24-bit BMP or JPEG files. An output of "-" writes to stdout.`

var errUsage = errors.New("invalid usage")

// Program entry point

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("steg", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showVer := fs.Bool("version", false, "Show the codec version")
	verbose := fs.Bool("v", false, "Log what the codec is doing")
	fs.Usage = func() { fmt.Fprintln(stderr, usage) }
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVer {
		fmt.Fprintf(stdout, "steg v%v\n", pixsecret.Version())
		return 0
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	log, err := logger.NewConsole(stderr, level)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	codec := bridge.New(func(msg string) { log.Log.Debug(msg) })

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 2
	}

	switch rest[0] {
	case "encode":
		err = encodeCmd(codec, rest[1:], stdout, stderr)
	case "decode":
		err = decodeCmd(codec, rest[1:], stdout, stderr)
	default:
		fs.Usage()
		return 2
	}

	if errors.Is(err, errUsage) {
		return 2
	}
	if err != nil {
		log.Log.Error("operation failed", zap.String("command", rest[0]), zap.Error(err))
		return 1
	}
	return 0
}

func encodeCmd(codec *bridge.Bridge, args []string, stdout, stderr io.Writer) error {
	encodeFlags := flag.NewFlagSet("encode", flag.ContinueOnError)
	encodeFlags.SetOutput(stderr)
	secret := encodeFlags.String("s", "", "Secret to be embedded into the image")
	imgPath := encodeFlags.String("i", "", "Path to the image, a 24-bit BMP or a JPEG")
	outPath := encodeFlags.String("o", "-", "File path for the new encoded image")
	if err := encodeFlags.Parse(args); err != nil {
		return errUsage
	}
	if len(*imgPath) <= 0 || len(*outPath) <= 0 {
		encodeFlags.PrintDefaults()
		return errUsage
	}

	image, err := os.ReadFile(*imgPath)
	if err != nil {
		return fmt.Errorf("failed reading file %v: %w", *imgPath, err)
	}

	encoded, err := codec.EncodeSecret(*secret, image)
	if err != nil {
		return err
	}

	if *outPath == "-" {
		_, err = stdout.Write(encoded)
		return err
	}
	return writeFile(*outPath, encoded)
}

func decodeCmd(codec *bridge.Bridge, args []string, stdout, stderr io.Writer) error {
	decodeFlags := flag.NewFlagSet("decode", flag.ContinueOnError)
	decodeFlags.SetOutput(stderr)
	imgPath := decodeFlags.String("i", "", "Path to the encoded image")
	if err := decodeFlags.Parse(args); err != nil {
		return errUsage
	}
	if len(*imgPath) <= 0 {
		decodeFlags.PrintDefaults()
		return errUsage
	}

	image, err := os.ReadFile(*imgPath)
	if err != nil {
		return fmt.Errorf("failed reading file %v: %w", *imgPath, err)
	}

	secret, err := codec.DecodeSecret(image)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, secret)
	return err
}

func writeFile(path string, data []byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed writing file %v: %w", path, err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	_, err = f.Write(data)
	return err
}
