// Package codec selects a stream compression codec from a file name suffix.
package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies a compression format.
type Codec string

const (
	None   Codec = ""
	Gzip   Codec = "gzip"
	Zstd   Codec = "zstd"
	LZ4    Codec = "lz4"
	Brotli Codec = "brotli"
)

var suffixes = map[string]Codec{
	".gz":   Gzip,
	".gzip": Gzip,
	".zst":  Zstd,
	".zstd": Zstd,
	".lz4":  LZ4,
	".br":   Brotli,
}

// Detect returns the codec implied by the last extension of name and the
// name with that extension removed. Unknown extensions yield None and name
// unchanged.
func Detect(name string) (Codec, string) {
	ext := strings.ToLower(filepath.Ext(name))
	if c, ok := suffixes[ext]; ok {
		return c, name[:len(name)-len(ext)]
	}
	return None, name
}

// NewReader wraps r in a decompressor for c. The returned ReadCloser does not
// close r.
func NewReader(c Codec, r io.Reader) (io.ReadCloser, error) {
	switch c {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return zr, nil
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return zr.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case Brotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("unsupported codec %q", c)
	}
}

// NewWriter wraps w in a compressor for c. Close flushes the compressed
// stream but does not close w.
func NewWriter(c Codec, w io.Writer) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zw, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	case Brotli:
		return brotli.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported codec %q", c)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
