package lut

import (
	"fmt"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"lutpreview/okcolor"
)

// Preset builds a color function. clip only matters to presets that work in
// OKLab; nil clamps.
type Preset func(amount float64, clip okcolor.Clipper) func(rgb [3]float64) [3]float64

// DefaultGamutClip is the clipper Generate uses.
const DefaultGamutClip = "adaptive"

var presets = map[string]Preset{
	"identity": func(float64, okcolor.Clipper) func([3]float64) [3]float64 {
		return func(rgb [3]float64) [3]float64 { return rgb }
	},
	"invert": func(float64, okcolor.Clipper) func([3]float64) [3]float64 {
		return func(rgb [3]float64) [3]float64 {
			return [3]float64{1 - rgb[0], 1 - rgb[1], 1 - rgb[2]}
		}
	},
	// amount scales OKLCh chroma: 1 keeps it, 0 gives gray
	"oklab-chroma": func(amount float64, clip okcolor.Clipper) func([3]float64) [3]float64 {
		return func(rgb [3]float64) [3]float64 {
			lch := okcolor.LabFromSRGB(rgb).LCh()
			lch.C *= max(amount, 0)
			return lch.Lab().SRGB(clip)
		}
	},
	// amount is in degrees
	"hue-rotate": func(amount float64, _ okcolor.Clipper) func([3]float64) [3]float64 {
		return func(rgb [3]float64) [3]float64 {
			h, s, v := colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}.Hsv()
			c := colorful.Hsv(math.Mod(h+amount+360, 360), s, v).Clamped()
			return [3]float64{c.R, c.G, c.B}
		}
	},
	// amount in [0,1] blends toward a tungsten tint in linear light
	"warm": func(amount float64, _ okcolor.Clipper) func([3]float64) [3]float64 {
		k := clamp(amount, 0, 1)
		return func(rgb [3]float64) [3]float64 {
			r, g, b := colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}.LinearRgb()
			c := colorful.LinearRgb(r*(1+0.25*k), g*(1+0.05*k), b*(1-0.3*k)).Clamped()
			return [3]float64{c.R, c.G, c.B}
		}
	},
}

func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Generate builds a 3D LUT of the given size from a named preset, clipping
// with DefaultGamutClip.
func Generate(preset string, size int, amount float64, opts ...Option) (*LUT, error) {
	return GenerateClipped(preset, DefaultGamutClip, size, amount, opts...)
}

// GenerateClipped is Generate with a named gamut clipper, one of
// okcolor.ClipperNames.
func GenerateClipped(preset, gamutClip string, size int, amount float64, opts ...Option) (*LUT, error) {
	p, ok := presets[preset]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", preset)
	}
	clip, err := okcolor.ClipperByName(gamutClip)
	if err != nil {
		return nil, err
	}

	meta := []Option{
		WithMetadata("preset", preset),
		WithMetadata("amount", fmt.Sprintf("%g", amount)),
	}
	if preset == "oklab-chroma" {
		meta = append(meta, WithMetadata("gamut_clip", gamutClip))
	}
	return FromFunc(size, p(amount, clip), append(meta, opts...)...)
}
