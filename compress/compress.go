// Package compress provides the stream filters NBT files are commonly
// wrapped in. The nbt codec never compresses on its own: callers wrap the
// reader or writer they hand to it.
package compress

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies a stream filter.
type Compression uint8

const (
	// None passes bytes through unchanged.
	None Compression = iota
	// Gzip is used by Java Edition level.dat and player files.
	Gzip
	// Zlib is used by Java Edition region file chunks and the game protocol.
	Zlib
	// Zstd is a zstd frame stream.
	Zstd
	// LZ4 is an LZ4 frame stream.
	LZ4
)

// DefaultLevel selects each algorithm's default compression level.
const DefaultLevel = -1

// ErrUnknownCompression indicates a Compression value or name that is not
// defined.
var ErrUnknownCompression = errors.New("compress: unknown compression")

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zlib:
		return "zlib"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	}
	return fmt.Sprintf("unknown(%d)", uint8(c))
}

// ParseCompression parses the names returned by String.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(name) {
	case "none", "":
		return None, nil
	case "gzip", "gz":
		return Gzip, nil
	case "zlib", "deflate":
		return Zlib, nil
	case "zstd":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
}

// NewReader returns a reader that decompresses r. Closing it releases the
// decompressor but does not close r.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("compress: gzip header: %w", err)
		}
		return zr, nil
	case Zlib:
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("compress: zlib header: %w", err)
		}
		return zr, nil
	case Zstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("compress: zstd: %w", err)
		}
		return zr.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
}

// NewWriter returns a writer that compresses into w at the default level.
// The caller must Close it to flush the final block; w is not closed.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	return NewWriterLevel(w, c, DefaultLevel)
}

// NewWriterLevel is NewWriter with an explicit level. Gzip and Zlib take
// the flate levels 1 to 9; Zstd maps level onto its zstd equivalent; LZ4
// uses levels 1 to 9, with 0 for the fast mode.
func NewWriterLevel(w io.Writer, c Compression, level int) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		zw, err := gzip.NewWriterLevel(w, level)
		if err != nil {
			return nil, fmt.Errorf("compress: gzip: %w", err)
		}
		return zw, nil
	case Zlib:
		zw, err := zlib.NewWriterLevel(w, level)
		if err != nil {
			return nil, fmt.Errorf("compress: zlib: %w", err)
		}
		return zw, nil
	case Zstd:
		opts := []zstd.EOption{zstd.WithEncoderConcurrency(1)}
		if level != DefaultLevel {
			opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		}
		zw, err := zstd.NewWriter(w, opts...)
		if err != nil {
			return nil, fmt.Errorf("compress: zstd: %w", err)
		}
		return zw, nil
	case LZ4:
		zw := lz4.NewWriter(w)
		if level != DefaultLevel {
			if err := zw.Apply(lz4.CompressionLevelOption(lz4Level(level))); err != nil {
				return nil, fmt.Errorf("compress: lz4: %w", err)
			}
		}
		return zw, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
}

func lz4Level(level int) lz4.CompressionLevel {
	if level <= 0 {
		return lz4.Fast
	}
	return lz4.CompressionLevel(1 << (8 + min(level, 9)))
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// Detect peeks at the first bytes of r and reports the filter they start
// with. Input matching no known magic is reported as None. No bytes are
// consumed.
func Detect(r *bufio.Reader) (Compression, error) {
	head, err := r.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return None, err
	}
	switch {
	case len(head) >= 2 && head[0] == 0x1F && head[1] == 0x8B:
		return Gzip, nil
	case len(head) >= 4 && head[0] == 0x28 && head[1] == 0xB5 && head[2] == 0x2F && head[3] == 0xFD:
		return Zstd, nil
	case len(head) >= 4 && head[0] == 0x04 && head[1] == 0x22 && head[2] == 0x4D && head[3] == 0x18:
		return LZ4, nil
	case len(head) >= 2 && head[0]&0x0F == 8 && (uint16(head[0])<<8|uint16(head[1]))%31 == 0:
		// CM=8 (deflate) with a valid header checksum.
		return Zlib, nil
	}
	return None, nil
}
