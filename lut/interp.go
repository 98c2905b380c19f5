package lut

import (
	"fmt"
	"strings"
)

type Interpolation int

const (
	Tetrahedral Interpolation = iota
	Trilinear
)

func (i Interpolation) String() string {
	switch i {
	case Tetrahedral:
		return "tetrahedral"
	case Trilinear:
		return "trilinear"
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(s) {
	case "", "tetrahedral":
		return Tetrahedral, nil
	case "trilinear":
		return Trilinear, nil
	}
	return 0, fmt.Errorf("unknown interpolation %q", s)
}

// cell locates v (already in [0,1]) on an n-point axis and returns the lower
// grid index and the fractional offset from it.
func cell(v float64, n int) (int, float64) {
	pos := v * float64(n-1)
	i := int(pos)
	if i >= n-1 {
		i = n - 2
	}
	return i, clamp(pos-float64(i), 0, 1)
}

func interp1D(table []float64, n int, in [3]float64) [3]float64 {
	var out [3]float64
	for ch := range 3 {
		i, f := cell(in[ch], n)
		lo := table[i*3+ch]
		hi := table[(i+1)*3+ch]
		out[ch] = lo + (hi-lo)*f
	}
	return out
}

func tetrahedral3D(clut []float64, n int, in [3]float64) [3]float64 {
	ri, fr := cell(in[0], n)
	gi, fg := cell(in[1], n)
	bi, fb := cell(in[2], n)

	const stride = 3
	gStride := n * stride
	rStride := n * gStride

	c000 := ri*rStride + gi*gStride + bi*stride
	c001 := c000 + stride
	c010 := c000 + gStride
	c011 := c010 + stride
	c100 := c000 + rStride
	c101 := c100 + stride
	c110 := c100 + gStride
	c111 := c110 + stride

	// pick the tetrahedron by ordering the fractional parts, then blend its
	// four vertices
	var v1, v2 int
	var w0, w1, w2, w3 float64
	switch {
	case fr > fg && fg > fb:
		v1, v2 = c100, c110
		w0, w1, w2, w3 = 1-fr, fr-fg, fg-fb, fb
	case fr > fb && fb >= fg:
		v1, v2 = c100, c101
		w0, w1, w2, w3 = 1-fr, fr-fb, fb-fg, fg
	case fr > fg:
		v1, v2 = c001, c101
		w0, w1, w2, w3 = 1-fb, fb-fr, fr-fg, fg
	case fr > fb:
		v1, v2 = c010, c110
		w0, w1, w2, w3 = 1-fg, fg-fr, fr-fb, fb
	case fg > fb:
		v1, v2 = c010, c011
		w0, w1, w2, w3 = 1-fg, fg-fb, fb-fr, fr
	default:
		v1, v2 = c001, c011
		w0, w1, w2, w3 = 1-fb, fb-fg, fg-fr, fr
	}

	var out [3]float64
	for i := range 3 {
		out[i] = w0*clut[c000+i] + w1*clut[v1+i] + w2*clut[v2+i] + w3*clut[c111+i]
	}
	return out
}

func trilinear3D(clut []float64, n int, in [3]float64) [3]float64 {
	ri, fr := cell(in[0], n)
	gi, fg := cell(in[1], n)
	bi, fb := cell(in[2], n)

	const stride = 3
	gStride := n * stride
	rStride := n * gStride
	base := ri*rStride + gi*gStride + bi*stride

	var out [3]float64
	for corner := range 8 {
		offset, weight := base, 1.0
		if corner&4 != 0 {
			offset += rStride
			weight *= fr
		} else {
			weight *= 1 - fr
		}
		if corner&2 != 0 {
			offset += gStride
			weight *= fg
		} else {
			weight *= 1 - fg
		}
		if corner&1 != 0 {
			offset += stride
			weight *= fb
		} else {
			weight *= 1 - fb
		}
		if weight == 0 {
			continue
		}

		for i := range 3 {
			out[i] += weight * clut[offset+i]
		}
	}
	return out
}
