// Package corpusfile reads and writes newline-delimited corpus files.
//
// Each line holds one string. Lines that start with a double quote are Go
// string literals, which lets entries contain newlines or be empty; the
// writer quotes exactly those entries. Blank lines are skipped.
//
// Files may be compressed with gzip, zstd or lz4. Readers detect the format
// from the leading magic bytes, so the file name does not matter.
package corpusfile

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// DefaultBatchSize is the number of lines handed to the callback of Scan
// when no batch size is given.
const DefaultBatchSize = 4096

// maxLineSize bounds a single line.
const maxLineSize = 16 << 20

// Compression defines the compression algorithm of a corpus file.
type Compression uint8

const (
	// CompressionNone indicates plain text.
	CompressionNone Compression = iota
	// CompressionGzip indicates a gzip stream.
	CompressionGzip
	// CompressionZSTD indicates a zstd stream.
	CompressionZSTD
	// CompressionLZ4 indicates an lz4 frame stream.
	CompressionLZ4
)

// ErrUnknownCompression is returned for an unrecognized compression name.
var ErrUnknownCompression = errors.New("corpusfile: unknown compression")

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZSTD = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZSTD:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// Ext returns the conventional file extension, including the dot.
func (c Compression) Ext() string {
	switch c {
	case CompressionGzip:
		return ".gz"
	case CompressionZSTD:
		return ".zst"
	case CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// ParseCompression parses a compression name as returned by String.
// The empty string and "plain" mean CompressionNone.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "plain":
		return CompressionNone, nil
	case "gzip", "gz":
		return CompressionGzip, nil
	case "zstd", "zst":
		return CompressionZSTD, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return CompressionNone, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
	}
}

// CompressionFromPath guesses the compression from a file extension.
func CompressionFromPath(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZSTD
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// NewReader returns a reader over the decompressed content of r.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(magicZSTD))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	switch {
	case bytes.HasPrefix(head, magicGzip):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case bytes.HasPrefix(head, magicZSTD):
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case bytes.HasPrefix(head, magicLZ4):
		return io.NopCloser(lz4.NewReader(br)), nil
	default:
		return io.NopCloser(br), nil
	}
}

// NewWriter returns a writer compressing into w. Close must be called to
// flush the stream; it does not close w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionZSTD:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		return enc, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// EncodeLine returns the line representation of s.
func EncodeLine(s string) string {
	if s == "" || strings.HasPrefix(s, `"`) || strings.ContainsAny(s, "\r\n") ||
		strings.TrimSpace(s) == "" {
		return strconv.Quote(s)
	}
	return s
}

// DecodeLine parses a line written by EncodeLine. ok is false for blank
// lines.
func DecodeLine(line string) (s string, ok bool, err error) {
	line = strings.TrimSuffix(line, "\r")
	if strings.TrimSpace(line) == "" {
		return "", false, nil
	}
	if strings.HasPrefix(line, `"`) {
		s, err := strconv.Unquote(line)
		if err != nil {
			return "", false, fmt.Errorf("corpusfile: invalid quoted line: %w", err)
		}
		return s, true, nil
	}
	return line, true, nil
}

// Scan reads lines from r (decompressing if needed) and calls fn with
// batches of at most batchSize strings. A batchSize <= 0 means
// DefaultBatchSize. The batch slice is reused between calls.
func Scan(r io.Reader, batchSize int, fn func(batch []string) error) error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	rc, err := NewReader(r)
	if err != nil {
		return err
	}
	defer rc.Close()

	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	batch := make([]string, 0, batchSize)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		s, ok, err := DecodeLine(sc.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if !ok {
			continue
		}

		batch = append(batch, s)
		if len(batch) == batchSize {
			if err := fn(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}

// ReadAll returns every string in r.
func ReadAll(r io.Reader) ([]string, error) {
	var out []string
	err := Scan(r, 0, func(batch []string) error {
		out = append(out, batch...)
		return nil
	})
	return out, err
}

// ReadFile returns every string in the file at path. "-" reads stdin.
func ReadFile(path string) ([]string, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines, err := ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// Write writes strs to w, one per line, compressed with c.
func Write(w io.Writer, c Compression, strs iter.Seq[string]) (int, error) {
	wc, err := NewWriter(w, c)
	if err != nil {
		return 0, err
	}

	bw := bufio.NewWriter(wc)
	n := 0
	for s := range strs {
		if _, err := bw.WriteString(EncodeLine(s)); err != nil {
			return n, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return n, err
		}
		n++
	}

	if err := bw.Flush(); err != nil {
		return n, err
	}
	return n, wc.Close()
}

// Uploader receives batches of strings.
type Uploader interface {
	Upload(ctx context.Context, strs []string) error
}

// Load uploads the content of the files at paths in batches and returns the
// number of strings uploaded. Batches are uploaded in order; if a batch
// fails, the earlier ones stay uploaded.
func Load(ctx context.Context, up Uploader, batchSize int, paths ...string) (int, error) {
	total := 0
	for _, path := range paths {
		n, err := loadFile(ctx, up, batchSize, path)
		total += n
		if err != nil {
			return total, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return total, nil
}

func loadFile(ctx context.Context, up Uploader, batchSize int, path string) (int, error) {
	f, err := open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	err = Scan(f, batchSize, func(batch []string) error {
		if err := up.Upload(ctx, batch); err != nil {
			return err
		}
		n += len(batch)
		return nil
	})
	return n, err
}

func open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}
