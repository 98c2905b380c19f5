// Package render turns applied LUTs into files: before/after composites and
// the encoders that write them.
package render

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/alecthomas/kong"

	"lutpreview/applier"
	"lutpreview/lut"
	"lutpreview/parallel"
)

type CLICmd struct {
	Photo         string            `help:"Reference photo to preview LUTs on" required:"" env:"LUTPREVIEW_PHOTO"`
	LUTs          []string          `arg:"" name:"lut" help:"LUT files (.cube, .3dl, .vlt) or folders containing them"`
	Dest          string            `help:"Destination folder for previews. Relative to the photo folder if not absolute." default:"luted"`
	Format        string            `help:"Output image format" enum:"png,jpeg,bmp,tiff,gif" default:"png"`
	MaxHeight     int               `help:"Downscale previews to at most this height, 0 keeps the photo size" default:"0"`
	Gutter        int               `help:"Gap in pixels between original and LUTed panes" default:"16"`
	Background    string            `help:"Background color of the composite" default:"#000000"`
	AfterOnly     bool              `help:"Write only the LUTed image, without the original beside it" default:"false"`
	Interpolation string            `help:"3D LUT interpolation" enum:"tetrahedral,trilinear" default:"tetrahedral"`
	LUTFiles      []string          `kong:"-"`
	Layout        Layout            `kong:"-"`
	Interp        lut.Interpolation `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	photos, err := applier.PhotoPicker.Pick(c.Photo)
	if err != nil {
		return fmt.Errorf("invalid photo %q: %w", c.Photo, err)
	}
	c.Photo = photos[0]

	if c.LUTFiles, err = lut.Picker.Pick(c.LUTs...); err != nil {
		return err
	}

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(filepath.Dir(c.Photo), c.Dest)
	}

	if c.MaxHeight < 0 {
		return fmt.Errorf("invalid max height: %d", c.MaxHeight)
	}

	var bg color.Color
	if bg, err = ParseHexColor(c.Background); err != nil {
		return err
	}
	c.Layout = Layout{MaxHeight: c.MaxHeight, Gutter: c.Gutter, Background: bg}

	c.Interp, err = lut.ParseInterpolation(c.Interpolation)
	return err
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	photo, _, err := applier.Decode(c.Photo)
	if err != nil {
		return err
	}

	names := outputNames(c.Photo, c.LUTFiles)

	var processedCount, errCount atomic.Uint64
	for i, lutPath := range c.LUTFiles {
		worker(func() {
			logger := slog.Default().With("lut", lutPath)
			if err := c.preview(logger, photo, lutPath, names[i]); err != nil {
				errCount.Add(1)
				logger.Error("could not preview LUT", "error", err)
				return
			}
			processedCount.Add(1)
		})
	}

	wait(true)

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

// outputNames gives every LUT its own output name: the photo name without its
// extension, a dash and the LUT file name. Repeated LUT file names get a
// numeric suffix in the order they are listed.
func outputNames(photoPath string, lutPaths []string) []string {
	photoName := strings.TrimSuffix(filepath.Base(photoPath), filepath.Ext(photoPath))

	names := make([]string, len(lutPaths))
	seen := make(map[string]int, len(lutPaths))
	for i, lutPath := range lutPaths {
		name := photoName + "-" + filepath.Base(lutPath)
		key := strings.ToLower(name)
		seen[key]++
		for n := seen[key]; n > 1; n++ {
			candidate := fmt.Sprintf("%s-%d", name, n)
			if _, taken := seen[strings.ToLower(candidate)]; !taken {
				name = candidate
				seen[strings.ToLower(candidate)]++
				break
			}
		}
		names[i] = name
	}
	return names
}

func (c *CLICmd) preview(logger *slog.Logger, photo image.Image, lutPath, name string) error {
	l, err := lut.Load(lutPath)
	if err != nil {
		return err
	}

	after, err := applier.Apply(photo, l, applier.WithInterpolation(c.Interp))
	if err != nil {
		return err
	}

	var out image.Image
	if c.AfterOnly {
		out = fit(logger, after, c.Layout.MaxHeight)
	} else {
		out = Compose(logger, photo, after, c.Layout)
	}

	dest, err := Save(out, c.Format, c.Dest, name)
	if err != nil {
		return err
	}
	logger.Info("saved preview", "dest", dest)
	return nil
}
