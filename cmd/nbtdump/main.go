// nbtdump decodes an NBT document and prints it as SNBT, JSON, YAML or
// CBOR, or re-encodes it in another wire format and compression.
//
//	nbtdump level.dat
//	nbtdump --format bedrock --output json level.dat
//	nbtdump --format network --compression none --all packets.bin
//	nbtdump --output nbt --to-format bedrock --to-compression none level.dat > level.le
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/oy3o/nbt"
	"github.com/oy3o/nbt/compress"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type config struct {
	format        string
	compression   string
	output        string
	toFormat      string
	toCompression string
	limitsFile    string
	maxDepth      int
	all           bool
	debug         bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cfg config
	flagSet := pflag.NewFlagSet("nbtdump", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&cfg.format, "format", "f", "java", "wire format: java, bedrock or network")
	flagSet.StringVarP(&cfg.compression, "compression", "c", "auto", "input compression: auto, none, gzip, zlib, zstd or lz4")
	flagSet.StringVarP(&cfg.output, "output", "o", "snbt", "output: snbt, json, yaml, cbor or nbt")
	flagSet.StringVar(&cfg.toFormat, "to-format", "", "wire format for --output nbt (default: same as --format)")
	flagSet.StringVar(&cfg.toCompression, "to-compression", "none", "compression for --output nbt")
	flagSet.StringVar(&cfg.limitsFile, "limits", "", "YAML file with decoding limits")
	flagSet.IntVar(&cfg.maxDepth, "max-depth", 0, "maximum nesting depth (overrides --limits)")
	flagSet.BoolVar(&cfg.all, "all", false, "decode every root tag until the end of input")
	flagSet.BoolVar(&cfg.debug, "debug", false, "log decoding progress to stderr")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	level := slog.LevelWarn
	if cfg.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	var path string
	switch flagSet.NArg() {
	case 0:
		path = "-"
	case 1:
		path = flagSet.Arg(0)
	default:
		return fmt.Errorf("expected at most one input file, got %d", flagSet.NArg())
	}

	in := stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}
	return dump(cfg, in, stdout, logger)
}

func dump(cfg config, in io.Reader, out io.Writer, logger *slog.Logger) error {
	format, err := nbt.FormatByName(cfg.format)
	if err != nil {
		return err
	}
	opts, err := loadLimits(cfg)
	if err != nil {
		return err
	}
	render, err := renderer(cfg)
	if err != nil {
		return err
	}

	buffered := bufio.NewReader(in)
	c, err := inputCompression(cfg.compression, buffered)
	if err != nil {
		return err
	}
	logger.Debug("opening input", "format", format.Name(), "compression", c)
	source, err := compress.NewReader(buffered, c)
	if err != nil {
		return err
	}
	defer source.Close()

	dec, err := nbt.NewDecoder(bufio.NewReader(source), format, &opts)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	err = renderAll(cfg, dec, w, render, logger)
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	return err
}

func renderAll(cfg config, dec *nbt.Decoder, w io.Writer, render renderFunc, logger *slog.Logger) error {
	for count := 0; ; count++ {
		name, root, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			if count > 0 {
				return nil
			}
			err = nbt.ErrUnexpectedEOF
		}
		if err != nil {
			return fmt.Errorf("decoding root %d at byte %d: %w", count, dec.Count(), err)
		}
		logger.Debug("decoded root", "index", count, "name", name, "type", root.Type(), "bytes", dec.Count())
		if err := render(w, name, root); err != nil {
			return err
		}
		if !cfg.all {
			return nil
		}
	}
}

func inputCompression(name string, r *bufio.Reader) (compress.Compression, error) {
	if name == "auto" {
		return compress.Detect(r)
	}
	return compress.ParseCompression(name)
}

func loadLimits(cfg config) (nbt.Options, error) {
	opts := nbt.DefaultOptions()
	if cfg.limitsFile != "" {
		file, err := os.Open(cfg.limitsFile)
		if err != nil {
			return opts, err
		}
		defer file.Close()
		if opts, err = nbt.LoadOptions(file); err != nil {
			return opts, fmt.Errorf("%s: %w", cfg.limitsFile, err)
		}
	}
	if cfg.maxDepth > 0 {
		opts.MaxDepth = cfg.maxDepth
	}
	return opts, nil
}
