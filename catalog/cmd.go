package catalog

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"lutpreview/lut"
	"lutpreview/parallel"
	"lutpreview/render"
)

type CLICmd struct {
	Script        string        `arg:"" help:"YAML script of catalog actions (add, photo, select, remove, clear, view)"`
	Dest          string        `help:"Destination folder for rendered views. Relative to the script folder if not absolute." default:"views"`
	Format        string        `help:"Output image format for comparison views" enum:"png,jpeg,bmp,tiff,gif" default:"png"`
	InfoFormat    string        `help:"Output format for metadata views" enum:"text,yaml" default:"text"`
	MaxHeight     int           `help:"Downscale comparison panes to at most this height, 0 keeps the photo size" default:"0"`
	Gutter        int           `help:"Gap in pixels between original and LUTed panes" default:"16"`
	Background    string        `help:"Background color of the composite" default:"#000000"`
	Interpolation string        `help:"3D LUT interpolation" enum:"tetrahedral,trilinear" default:"tetrahedral"`
	Layout        render.Layout `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	script, err := filepath.Abs(c.Script)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(script); err == nil && !info.Mode().IsRegular() {
			err = fmt.Errorf("not a regular file")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid script path %q: %w", c.Script, err)
	}
	c.Script = script

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(filepath.Dir(script), c.Dest)
	}

	if c.MaxHeight < 0 {
		return fmt.Errorf("invalid max height: %d", c.MaxHeight)
	}

	var bg color.Color
	if bg, err = render.ParseHexColor(c.Background); err != nil {
		return err
	}
	c.Layout = render.Layout{MaxHeight: c.MaxHeight, Gutter: c.Gutter, Background: bg}
	return nil
}

func (c *CLICmd) Run(workers parallel.Size) error {
	script, err := LoadScript(c.Script)
	if err != nil {
		return err
	}

	sess := NewSession(FileLoader{}, slog.Default().With("script", filepath.Base(c.Script)))
	sess.Workers = workers
	if sess.Interpolation, err = lut.ParseInterpolation(c.Interpolation); err != nil {
		return err
	}
	sess.OnAlert = func(a Alert) {
		fmt.Fprintf(os.Stdout, "%s: %s\n", a.Title, a.Message)
	}

	return Play(sess, script, c.view)
}

func (c *CLICmd) view(name string, d Detail) error {
	logger := slog.Default().With("view", name)

	switch d.View {
	case NoView:
		if d.Err != nil {
			logger.Error("selected LUT is unreadable", "lut", string(d.Entry), "error", d.Err)
		} else {
			logger.Info("nothing selected")
		}
		return nil
	case MetadataView:
		if d.Err != nil {
			logger.Warn("cannot preview", "lut", string(d.Entry), "error", d.Err)
		}
		if c.InfoFormat == "yaml" {
			return d.Info.WriteYAML(os.Stdout)
		}
		return d.Info.WriteText(os.Stdout)
	}

	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}
	out := render.Compose(logger, d.Before, d.After, c.Layout)
	dest, err := render.Save(out, c.Format, c.Dest, name)
	if err != nil {
		return err
	}
	logger.Info("saved comparison", "lut", d.Entry.Name(), "dest", dest)
	return nil
}
