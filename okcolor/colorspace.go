// based on:
// https://bottosson.github.io/posts/oklab/
// https://bottosson.github.io/posts/colorwrong/#what-can-we-do%3F

// Package okcolor converts between linear sRGB and the OKLab/OKLCh
// perceptual spaces, with gamut clipping back into sRGB.
package okcolor

import "math"

type Lab struct {
	L float64 // perceived lightness
	A float64 // how green/red the color is
	B float64 // how blue/yellow the color is
}

func LabFromLinear(r, g, b float64) Lab {
	l := math.Cbrt(0.4122214708*r + 0.5363325363*g + 0.0514459929*b)
	m := math.Cbrt(0.2119034982*r + 0.6806995451*g + 0.1073969566*b)
	s := math.Cbrt(0.0883024619*r + 0.2817188376*g + 0.6299787005*b)

	return Lab{
		L: 0.2104542553*l + 0.7936177850*m - 0.0040720468*s,
		A: 1.9779984951*l - 2.4285922050*m + 0.4505937099*s,
		B: 0.0259040371*l + 0.7827717662*m - 0.8086757660*s,
	}
}

// Linear converts back to linear sRGB without any gamut clipping.
func (lc Lab) Linear() (r, g, b float64) {
	l := lc.L + 0.3963377774*lc.A + 0.2158037573*lc.B
	l = l * l * l
	m := lc.L - 0.1055613458*lc.A - 0.0638541728*lc.B
	m = m * m * m
	s := lc.L - 0.0894841775*lc.A - 1.2914855480*lc.B
	s = s * s * s

	r = +4.0767416621*l - 3.3077115913*m + 0.2309699292*s
	g = -1.2684380046*l + 2.6097574011*m - 0.3413193965*s
	b = -0.0041960863*l - 0.7034186147*m + 1.7076147010*s
	return r, g, b
}

// ClippedLinear converts to linear sRGB, passing out-of-gamut colors through
// clip first. A nil clip clamps each channel instead.
func (lc Lab) ClippedLinear(clip Clipper) (r, g, b float64) {
	r, g, b = lc.Linear()
	if inGamut(r, g, b) {
		return r, g, b
	}
	if clip != nil {
		r, g, b = clip(lc).Linear()
	}
	return clamp(r, 0, 1), clamp(g, 0, 1), clamp(b, 0, 1)
}

func (lc Lab) LCh() LCh {
	return LCh{
		L: lc.L,
		C: math.Sqrt((lc.A * lc.A) + (lc.B * lc.B)),
		H: math.Atan2(lc.B, lc.A),
	}
}

type LCh struct {
	L float64 // perceived lightness
	C float64 // chroma
	H float64 // hue
}

func (lc LCh) Lab() Lab {
	return Lab{
		L: lc.L,
		A: lc.C * math.Cos(lc.H),
		B: lc.C * math.Sin(lc.H),
	}
}

func inGamut(r, g, b float64) bool {
	return (r >= 0) && (r <= 1) && (g >= 0) && (g <= 1) && (b >= 0) && (b <= 1)
}
