// Package applier maps every pixel of a bitmap through a LUT.
package applier

import (
	"errors"
	"image"
	"image/color"

	"lutpreview/lut"
	"lutpreview/parallel"
)

var (
	errEmptyImage = errors.New("image has no pixels")
	errNoLUT      = errors.New("no LUT given")
)

type Options struct {
	Interpolation lut.Interpolation
	// Workers bounds the goroutines used for one image. Output does not
	// depend on it.
	Workers parallel.Size
}

// Apply returns a new bitmap with the same bounds as src where every pixel
// has been mapped through l. Alpha is carried over unchanged. Neither src nor
// l is modified.
func Apply(src image.Image, l *lut.LUT, options ...func(*Options)) (*image.NRGBA64, error) {
	opts := Options{Workers: 1}
	for _, o := range options {
		o(&opts)
	}

	if l == nil {
		return nil, &TransformError{Reason: "missing LUT", Err: errNoLUT}
	}
	if src == nil || src.Bounds().Empty() {
		return nil, &TransformError{Reason: "empty bitmap", Err: errEmptyImage}
	}
	switch src.ColorModel() {
	case color.AlphaModel, color.Alpha16Model:
		return nil, &TransformError{Reason: "bitmap has no color channels"}
	}

	bounds := src.Bounds()
	dst := image.NewNRGBA64(bounds)
	parallel.Bands(bounds, opts.Workers, func(band image.Rectangle) {
		for y := band.Min.Y; y < band.Max.Y; y++ {
			for x := band.Min.X; x < band.Max.X; x++ {
				c := color.NRGBA64Model.Convert(src.At(x, y)).(color.NRGBA64)
				out := l.Map([3]float64{
					float64(c.R) / 0xffff,
					float64(c.G) / 0xffff,
					float64(c.B) / 0xffff,
				}, opts.Interpolation)
				dst.SetNRGBA64(x, y, color.NRGBA64{
					R: quantize(out[0]),
					G: quantize(out[1]),
					B: quantize(out[2]),
					A: c.A,
				})
			}
		}
	})

	return dst, nil
}

func quantize(v float64) uint16 {
	return uint16(v*0xffff + 0.5)
}

func WithInterpolation(mode lut.Interpolation) func(*Options) {
	return func(o *Options) { o.Interpolation = mode }
}

func WithWorkers(n parallel.Size) func(*Options) {
	return func(o *Options) { o.Workers = n }
}
