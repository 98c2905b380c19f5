package lut

import (
	"errors"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

// parse3DL reads Autodesk/Lustre .3dl tables. An optional first numeric line
// with more than three values, or as many as a Mesh header declares, is the
// input shaper, and its length is the grid size. Rows list blue fastest.
// Tables written with decimal points or exponents are taken as-is; all-integer
// tables are scaled by the Mesh output depth, or else by the smallest common
// bit depth that holds the largest value.
func parse3DL(r io.Reader) (*LUT, error) {
	var (
		size     int
		meshSize int
		shaper   bool
		floats   bool
		outMax   float64
		rows     []float64
		comments []string
		opts     []Option
	)

	lr := newLineReader(r)
	for lr.Next() {
		line := lr.text
		if line[0] == '#' {
			if len(rows) == 0 {
				if c := commentText(line); c != "" {
					comments = append(comments, c)
				}
			}
			continue
		}

		fields := strings.Fields(line)
		if strings.EqualFold(fields[0], "3DMESH") {
			opts = append(opts, WithMetadata("3dmesh", "true"))
			continue
		}
		if isKeyword(fields[0]) {
			key := strings.ToLower(fields[0])
			if key == "mesh" {
				if len(fields) != 3 {
					return nil, unparseable(lr.line, "Mesh needs input and output bit depths")
				}
				inBits, err1 := strconv.Atoi(fields[1])
				outBits, err2 := strconv.Atoi(fields[2])
				if err1 != nil || err2 != nil || inBits < 1 || inBits > 8 || outBits < 1 || outBits > 16 {
					return nil, unparseable(lr.line, "invalid Mesh %q", line)
				}
				size = 1<<inBits + 1
				meshSize = size
				outMax = float64(int(1)<<outBits - 1)
				opts = append(opts, WithMetadata("mesh", fields[1]+" "+fields[2]))
				continue
			}
			opts = append(opts, WithMetadata(key, strings.Join(fields[1:], " ")))
			continue
		}

		vals, err := parseFloats(lr.line, fields)
		if err != nil {
			return nil, err
		}
		switch {
		case len(rows) == 0 && !shaper && len(vals) > 3:
			if size != 0 && size != len(vals) {
				return nil, unparseable(lr.line, "shaper has %d points, Mesh declares %d", len(vals), size)
			}
			size, shaper = len(vals), true
			opts = append(opts, WithMetadata("shaper", strconv.Itoa(len(vals))+" points, max "+fields[len(fields)-1]))
		case len(vals) == 3:
			rows = append(rows, vals...)
			floats = floats || slices.ContainsFunc(fields, isFloatToken)
		default:
			return nil, unparseable(lr.line, "expected 3 values, got %d", len(vals))
		}
	}
	if err := lr.Err(); err != nil {
		return nil, err
	}

	count := len(rows) / 3
	// a three-point shaper looks like a row; only the extra row tells them apart
	if !shaper && meshSize == 3 && count == 3*3*3+1 {
		opts = append(opts, WithMetadata("shaper", "3 points, max "+strconv.FormatFloat(rows[2], 'f', -1, 64)))
		rows, count = rows[3:], count-1
	}
	if size == 0 {
		size = int(math.Round(math.Cbrt(float64(count))))
	}
	if size < 2 || size*size*size != count {
		return nil, unparseable(lr.line, "%d rows do not form a cube", count)
	}

	switch {
	case floats:
		outMax = 1
	case outMax == 0:
		var err error
		if outMax, err = bitDepthScale(rows); err != nil {
			return nil, unparseable(lr.line, "%v", err)
		}
	}
	for i := range rows {
		rows[i] /= outMax
	}

	if len(comments) > 0 {
		opts = append(opts, WithDescription(strings.Join(comments, "\n")))
	}
	opts = append(opts, WithMetadata("output_scale", strconv.FormatFloat(outMax, 'f', -1, 64)))

	return newLUT(Format3DL, ThreeD, size, rows, opts...)
}

func isFloatToken(s string) bool {
	return strings.ContainsAny(s, ".eE")
}

var integerScales = []float64{1023, 4095, 65535}

func bitDepthScale(rows []float64) (float64, error) {
	var hi float64
	for _, v := range rows {
		if v < 0 {
			return 0, errNegative
		}
		hi = max(hi, v)
	}
	if hi <= 1 {
		return 1, nil
	}
	for _, s := range integerScales {
		if hi <= s {
			return s, nil
		}
	}
	return 0, errOutOfRange
}

var (
	errNegative   = errors.New("negative table value")
	errOutOfRange = errors.New("table value exceeds 16-bit range")
)
