// Package lut reads color look-up tables and maps colors through them.
//
// A LUT is immutable once constructed: every accessor returns copies, so the
// same value can be shared between goroutines applying it to different images.
package lut

import (
	"errors"
	"fmt"
	"maps"
	"math"
)

var (
	ErrUnparseable       = errors.New("unparseable LUT")
	ErrUnsupportedFormat = errors.New("unsupported LUT format")
)

type Dimension int

const (
	OneD   Dimension = 1
	ThreeD Dimension = 3
)

type LUT struct {
	format      Format
	dim         Dimension
	size        int
	title       string
	description string
	metadata    map[string]string
	domainMin   [3]float64
	domainMax   [3]float64
	// table holds 3 output values per grid point. For 3D tables the grid is
	// indexed [r][g][b] with blue varying fastest; 1D tables hold one entry
	// per step for all three channels.
	table []float64
}

type Option func(*LUT)

func WithTitle(title string) Option {
	return func(l *LUT) { l.title = title }
}

func WithDescription(description string) Option {
	return func(l *LUT) { l.description = description }
}

func WithMetadata(key, value string) Option {
	return func(l *LUT) { l.metadata[key] = value }
}

func WithDomain(lo, hi [3]float64) Option {
	return func(l *LUT) {
		l.domainMin = lo
		l.domainMax = hi
	}
}

// FromFunc samples f on a size×size×size grid over [0,1]³.
func FromFunc(size int, f func(rgb [3]float64) [3]float64, opts ...Option) (*LUT, error) {
	if size < 2 {
		return nil, fmt.Errorf("%w: grid size %d is too small", ErrUnparseable, size)
	}

	table := make([]float64, 0, size*size*size*3)
	step := 1 / float64(size-1)
	for r := range size {
		for g := range size {
			for b := range size {
				out := f([3]float64{float64(r) * step, float64(g) * step, float64(b) * step})
				table = append(table, out[0], out[1], out[2])
			}
		}
	}

	return newLUT(FormatCube, ThreeD, size, table, opts...)
}

func newLUT(format Format, dim Dimension, size int, table []float64, opts ...Option) (*LUT, error) {
	l := &LUT{
		format:    format,
		dim:       dim,
		size:      size,
		metadata:  map[string]string{},
		domainMax: [3]float64{1, 1, 1},
		table:     table,
	}
	for _, opt := range opts {
		opt(l)
	}

	if err := l.validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *LUT) validate() error {
	if l.size < 2 {
		return fmt.Errorf("%w: size %d is too small", ErrUnparseable, l.size)
	}

	want := l.size * 3
	if l.dim == ThreeD {
		want *= l.size * l.size
	} else if l.dim != OneD {
		return fmt.Errorf("%w: invalid dimension %d", ErrUnparseable, l.dim)
	}
	if len(l.table) != want {
		return fmt.Errorf("%w: expected %d table entries for size %d, got %d", ErrUnparseable,
			want/3, l.size, len(l.table)/3)
	}

	for i := range 3 {
		if !(l.domainMax[i] > l.domainMin[i]) {
			return fmt.Errorf("%w: empty domain [%g, %g]", ErrUnparseable, l.domainMin[i], l.domainMax[i])
		}
	}
	for _, v := range l.table {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite table value", ErrUnparseable)
		}
	}
	return nil
}

func (l *LUT) Format() Format { return l.format }

func (l *LUT) Dimension() Dimension { return l.dim }

// Size is the number of grid points per axis.
func (l *LUT) Size() int { return l.size }

func (l *LUT) Title() (string, bool) { return l.title, l.title != "" }

func (l *LUT) Description() (string, bool) { return l.description, l.description != "" }

func (l *LUT) Metadata() map[string]string { return maps.Clone(l.metadata) }

func (l *LUT) Domain() (lo, hi [3]float64) { return l.domainMin, l.domainMax }

// Map sends an RGB triplet through the table. Inputs are normalized by the
// domain and clamped; outputs are clamped to [0,1].
func (l *LUT) Map(rgb [3]float64, mode Interpolation) [3]float64 {
	var in [3]float64
	for i := range 3 {
		in[i] = clamp((rgb[i]-l.domainMin[i])/(l.domainMax[i]-l.domainMin[i]), 0, 1)
	}

	var out [3]float64
	switch {
	case l.dim == OneD:
		out = interp1D(l.table, l.size, in)
	case mode == Trilinear:
		out = trilinear3D(l.table, l.size, in)
	default:
		out = tetrahedral3D(l.table, l.size, in)
	}

	for i := range out {
		out[i] = clamp(out[i], 0, 1)
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo || math.IsNaN(x) {
		return lo
	} else if x > hi {
		return hi
	}
	return x
}
