package render

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

type Layout struct {
	// MaxHeight downscales both panes to at most this many rows; 0 keeps
	// the source size.
	MaxHeight  int
	Gutter     int
	Background color.Color
}

// Compose lays out the original and the LUTed bitmap side by side.
func Compose(logger *slog.Logger, before, after image.Image, layout Layout) image.Image {
	before = fit(logger, before, layout.MaxHeight)
	after = fit(logger, after, layout.MaxHeight)

	bb, ab := before.Bounds(), after.Bounds()
	gutter := max(layout.Gutter, 0)
	canvas := image.Rect(0, 0, bb.Dx()+gutter+ab.Dx(), max(bb.Dy(), ab.Dy()))

	dest := image.NewNRGBA64(canvas)
	if layout.Background != nil {
		draw.Draw(dest, canvas, image.NewUniform(layout.Background), image.Point{}, draw.Src)
	}

	draw.Draw(dest, image.Rect(0, 0, bb.Dx(), bb.Dy()), before, bb.Min, draw.Over)
	right := image.Rect(bb.Dx()+gutter, 0, canvas.Max.X, ab.Dy())
	draw.Draw(dest, right, after, ab.Min, draw.Over)

	return dest
}

func fit(logger *slog.Logger, img image.Image, maxHeight int) image.Image {
	b := img.Bounds()
	if maxHeight <= 0 || b.Dy() <= maxHeight {
		return img
	}

	width := max(1, b.Dx()*maxHeight/b.Dy())
	logger.Debug("resizing", "width", width, "height", maxHeight)
	return resize.Thumbnail(uint(width), uint(maxHeight), img, resize.Lanczos3)
}
