package lut

import (
	"io"
	"strings"
)

// parseCube reads the Adobe/Resolve .cube text format. Data rows list the red
// channel fastest.
func parseCube(r io.Reader) (*LUT, error) {
	var (
		size1D, size3D int
		rows           []float64
		comments       []string
		opts           []Option
		domainMin      = [3]float64{0, 0, 0}
		domainMax      = [3]float64{1, 1, 1}
		metadata       = map[string]string{}
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
		if !isKeyword(fields[0]) {
			vals, err := parseFloats(lr.line, fields)
			if err != nil {
				return nil, err
			}
			if len(vals) != 3 {
				return nil, unparseable(lr.line, "expected 3 values, got %d", len(vals))
			}
			rows = append(rows, vals...)
			continue
		}

		if len(rows) > 0 {
			return nil, unparseable(lr.line, "keyword %s after table data", fields[0])
		}

		var err error
		switch key := strings.ToUpper(fields[0]); key {
		case "TITLE":
			title := strings.TrimSpace(line[len(fields[0]):])
			opts = append(opts, WithTitle(strings.Trim(title, `"`)))
		case "LUT_1D_SIZE":
			size1D, err = parseSize(lr.line, fields)
		case "LUT_3D_SIZE":
			size3D, err = parseSize(lr.line, fields)
		case "DOMAIN_MIN", "DOMAIN_MAX":
			var vals []float64
			if vals, err = parseFloats(lr.line, fields[1:]); err == nil {
				if len(vals) != 3 {
					return nil, unparseable(lr.line, "%s needs 3 values", key)
				}
				if key == "DOMAIN_MIN" {
					domainMin = [3]float64(vals)
				} else {
					domainMax = [3]float64(vals)
				}
			}
		case "LUT_1D_INPUT_RANGE", "LUT_3D_INPUT_RANGE":
			var vals []float64
			if vals, err = parseFloats(lr.line, fields[1:]); err == nil {
				if len(vals) != 2 {
					return nil, unparseable(lr.line, "%s needs 2 values", key)
				}
				domainMin = [3]float64{vals[0], vals[0], vals[0]}
				domainMax = [3]float64{vals[1], vals[1], vals[1]}
			}
		default:
			metadata[strings.ToLower(key)] = strings.Join(fields[1:], " ")
		}
		if err != nil {
			return nil, err
		}
	}
	if err := lr.Err(); err != nil {
		return nil, err
	}

	if len(comments) > 0 {
		opts = append(opts, WithDescription(strings.Join(comments, "\n")))
	}
	for k, v := range metadata {
		opts = append(opts, WithMetadata(k, v))
	}
	opts = append(opts, WithDomain(domainMin, domainMax))

	switch {
	case size1D > 0 && size3D > 0:
		return nil, unparseable(lr.line, "both 1D and 3D sizes declared")
	case size1D > 0:
		return newLUT(FormatCube, OneD, size1D, rows, opts...)
	case size3D > 0:
		if len(rows) != size3D*size3D*size3D*3 {
			return nil, unparseable(lr.line, "expected %d rows for size %d, got %d",
				size3D*size3D*size3D, size3D, len(rows)/3)
		}
		return newLUT(FormatCube, ThreeD, size3D, redFastestToGrid(rows, size3D), opts...)
	}
	return nil, unparseable(lr.line, "missing LUT_1D_SIZE or LUT_3D_SIZE")
}

// redFastestToGrid reorders rows listed with red varying fastest into the
// blue-fastest grid layout.
func redFastestToGrid(rows []float64, n int) []float64 {
	grid := make([]float64, len(rows))
	for i := range len(rows) / 3 {
		r, g, b := i%n, (i/n)%n, i/(n*n)
		copy(grid[(r*n*n+g*n+b)*3:], rows[i*3:i*3+3])
	}
	return grid
}

// gridToRedFastest is the inverse of redFastestToGrid.
func gridToRedFastest(grid []float64, n int) []float64 {
	rows := make([]float64, len(grid))
	for i := range len(grid) / 3 {
		r, g, b := i%n, (i/n)%n, i/(n*n)
		copy(rows[i*3:i*3+3], grid[(r*n*n+g*n+b)*3:])
	}
	return rows
}
