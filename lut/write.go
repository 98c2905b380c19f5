package lut

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteCube serializes l in the .cube format, whatever format it was read
// from. The description is written as leading comments; metadata is dropped.
func WriteCube(w io.Writer, l *LUT) error {
	bw := bufio.NewWriter(w)

	if title, ok := l.Title(); ok {
		fmt.Fprintf(bw, "TITLE \"%s\"\n", title)
	}
	if desc, ok := l.Description(); ok {
		for line := range strings.Lines(desc) {
			fmt.Fprintf(bw, "# %s\n", strings.TrimRight(line, "\n"))
		}
	}

	rows := l.table
	if l.dim == ThreeD {
		fmt.Fprintf(bw, "LUT_3D_SIZE %d\n", l.size)
		rows = gridToRedFastest(l.table, l.size)
	} else {
		fmt.Fprintf(bw, "LUT_1D_SIZE %d\n", l.size)
	}
	if l.domainMin != [3]float64{0, 0, 0} || l.domainMax != [3]float64{1, 1, 1} {
		fmt.Fprintf(bw, "DOMAIN_MIN %g %g %g\n", l.domainMin[0], l.domainMin[1], l.domainMin[2])
		fmt.Fprintf(bw, "DOMAIN_MAX %g %g %g\n", l.domainMax[0], l.domainMax[1], l.domainMax[2])
	}

	for i := 0; i < len(rows); i += 3 {
		fmt.Fprintf(bw, "%.6f %.6f %.6f\n", rows[i], rows[i+1], rows[i+2])
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("could not write cube data: %w", err)
	}
	return nil
}
