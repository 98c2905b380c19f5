package lut

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"lutpreview/picker"
)

type Format string

const (
	FormatCube Format = "cube"
	Format3DL  Format = "3dl"
	FormatVLT  Format = "vlt"
)

// Extensions lists the file extensions, with leading dot, that can be loaded.
func Extensions() []string {
	return []string{".cube", ".3dl", ".vlt"}
}

// Picker offers LUT files for multi-selection.
var Picker = picker.Picker{Name: "LUT", Extensions: Extensions(), Multiple: true}

func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cube":
		return FormatCube, nil
	case ".3dl":
		return Format3DL, nil
	case ".vlt":
		return FormatVLT, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads the LUT at path, picking the parser from the file extension.
func Load(path string) (*LUT, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open LUT %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close LUT", "name", path, "error", closeErr)
		}
	}()

	l, err := Parse(f, format)
	if err != nil {
		return nil, fmt.Errorf("could not read LUT %q: %w", path, err)
	}
	return l, nil
}

func Parse(r io.Reader, format Format) (*LUT, error) {
	switch format {
	case FormatCube:
		return parseCube(r)
	case Format3DL:
		return parse3DL(r)
	case FormatVLT:
		return parseVLT(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func unparseable(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrUnparseable, line, fmt.Sprintf(format, args...))
}

// lineReader yields trimmed, non-empty lines with their 1-based number.
type lineReader struct {
	sc   *bufio.Scanner
	line int
	text string
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	return &lineReader{sc: sc}
}

func (lr *lineReader) Next() bool {
	for lr.sc.Scan() {
		lr.line++
		text := lr.sc.Text()
		if lr.line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		lr.text = strings.TrimSpace(text)
		if lr.text != "" {
			return true
		}
	}
	return false
}

func (lr *lineReader) Err() error {
	if err := lr.sc.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnparseable, err)
	}
	return nil
}

func isKeyword(s string) bool {
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func parseFloats(line int, fields []string) ([]float64, error) {
	res := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, unparseable(line, "invalid number %q", f)
		}
		res[i] = v
	}
	return res, nil
}

func parseSize(line int, fields []string) (int, error) {
	if len(fields) != 2 {
		return 0, unparseable(line, "expected one size value")
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 2 {
		return 0, unparseable(line, "invalid size %q", fields[1])
	}
	return n, nil
}

func commentText(s string) string {
	return strings.TrimSpace(strings.TrimLeft(s, "#"))
}
