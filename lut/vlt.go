package lut

import (
	"io"
	"strings"
)

const vltScale = 4095

// parseVLT reads Panasonic VariCam .vlt tables: '#' header comments, a
// LUT_3D_SIZE line and 12-bit integer rows with blue varying fastest.
func parseVLT(r io.Reader) (*LUT, error) {
	var (
		size     int
		rows     []float64
		comments []string
		opts     []Option
	)

	lr := newLineReader(r)
	for lr.Next() {
		line := lr.text
		if line[0] == '#' {
			c := commentText(line)
			lower := strings.ToLower(c)
			switch {
			case strings.HasPrefix(lower, "panasonic vlt file version"):
				opts = append(opts, WithMetadata("version", strings.TrimSpace(c[len("panasonic vlt file version"):])))
			case strings.HasPrefix(lower, "source vlt file"):
				opts = append(opts, WithMetadata("source", strings.Trim(strings.TrimSpace(c[len("source vlt file"):]), `"`)))
			case c != "" && len(rows) == 0:
				comments = append(comments, c)
			}
			continue
		}

		fields := strings.Fields(line)
		if isKeyword(fields[0]) {
			if strings.ToUpper(fields[0]) != "LUT_3D_SIZE" {
				return nil, unparseable(lr.line, "unexpected keyword %s", fields[0])
			}
			var err error
			if size, err = parseSize(lr.line, fields); err != nil {
				return nil, err
			}
			continue
		}

		vals, err := parseFloats(lr.line, fields)
		if err != nil {
			return nil, err
		}
		if len(vals) != 3 {
			return nil, unparseable(lr.line, "expected 3 values, got %d", len(vals))
		}
		for _, v := range vals {
			if v < 0 || v > vltScale {
				return nil, unparseable(lr.line, "value %g outside 12-bit range", v)
			}
		}
		rows = append(rows, vals...)
	}
	if err := lr.Err(); err != nil {
		return nil, err
	}

	if size == 0 {
		return nil, unparseable(lr.line, "missing LUT_3D_SIZE")
	}
	if len(rows) != size*size*size*3 {
		return nil, unparseable(lr.line, "expected %d rows for size %d, got %d", size*size*size, size, len(rows)/3)
	}
	for i := range rows {
		rows[i] /= vltScale
	}

	if len(comments) > 0 {
		opts = append(opts, WithDescription(strings.Join(comments, "\n")))
	}
	return newLUT(FormatVLT, ThreeD, size, rows, opts...)
}
