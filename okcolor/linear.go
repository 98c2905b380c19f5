package okcolor

import "math"

// ToLinear removes the sRGB transfer curve from an encoded value in [0,1].
func ToLinear(x float64) float64 {
	if x >= 0.04045 {
		return math.Pow((x+0.055)/1.055, 2.4)
	}
	return x / 12.92
}

const pow float64 = 1.0 / 2.4

// FromLinear applies the sRGB transfer curve.
func FromLinear(x float64) float64 {
	if x >= 0.0031308 {
		return math.Pow(x, pow)*1.055 - 0.055
	}
	return x * 12.92
}

// LabFromSRGB converts an encoded sRGB triplet to OKLab.
func LabFromSRGB(rgb [3]float64) Lab {
	return LabFromLinear(ToLinear(rgb[0]), ToLinear(rgb[1]), ToLinear(rgb[2]))
}

// SRGB converts to an encoded sRGB triplet, clipping with clip when the color
// falls outside the gamut.
func (lc Lab) SRGB(clip Clipper) [3]float64 {
	r, g, b := lc.ClippedLinear(clip)
	return [3]float64{
		clamp(FromLinear(r), 0, 1),
		clamp(FromLinear(g), 0, 1),
		clamp(FromLinear(b), 0, 1),
	}
}
