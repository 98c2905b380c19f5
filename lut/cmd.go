package lut

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
)

type InfoCmd struct {
	LUTs     []string `arg:"" name:"lut" help:"LUT files (.cube, .3dl, .vlt) or folders containing them"`
	Format   string   `help:"Output format" enum:"text,yaml" default:"text"`
	LUTFiles []string `kong:"-"`
}

func (c *InfoCmd) Validate(kctx *kong.Context) error {
	var err error
	c.LUTFiles, err = Picker.Pick(c.LUTs...)
	return err
}

func (c *InfoCmd) Run() error {
	return c.write(os.Stdout)
}

func (c *InfoCmd) write(w io.Writer) error {
	var errCount, printed int
	for _, path := range c.LUTFiles {
		l, err := Load(path)
		if err != nil {
			errCount++
			slog.Error("could not load LUT", "file", path, "error", err)
			continue
		}

		info := l.Info(path)
		if c.Format == "yaml" {
			if printed > 0 {
				fmt.Fprintln(w, "---")
			}
			err = info.WriteYAML(w)
		} else {
			if printed > 0 {
				fmt.Fprintln(w)
			}
			err = info.WriteText(w)
		}
		if err != nil {
			return err
		}
		printed++
	}

	if errCount > 0 {
		return fmt.Errorf("error processing %d files", errCount)
	}
	return nil
}

type MakeCmd struct {
	Preset string  `help:"Color transform to bake" enum:"identity,invert,oklab-chroma,hue-rotate,warm" default:"identity"`
	Amount float64 `help:"Preset strength: chroma factor, hue degrees or warmth in [0,1]" default:"1"`
	Size   int     `help:"Grid points per axis" default:"33"`
	// kept in sync with okcolor.ClipperNames
	GamutClip string `help:"Gamut clipping for oklab-chroma" enum:"adaptive,keep-lightness,mid-gray,clamp" default:"adaptive"`
	Title     string `help:"TITLE written into the file"`
	Out       string `arg:"" help:"Destination .cube file"`
}

func (c *MakeCmd) Validate(kctx *kong.Context) error {
	if c.Size < 2 || c.Size > 256 {
		return fmt.Errorf("invalid size %d, should be between 2 and 256", c.Size)
	}
	if format, err := FormatFromPath(c.Out); err != nil || format != FormatCube {
		return fmt.Errorf("output %q must be a .cube file", c.Out)
	}
	return nil
}

func (c *MakeCmd) Run() (err error) {
	var opts []Option
	if c.Title != "" {
		opts = append(opts, WithTitle(c.Title))
	}
	l, err := GenerateClipped(c.Preset, c.GamutClip, c.Size, c.Amount, opts...)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.Out), 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder for %q: %w", c.Out, err)
	}
	f, err := os.Create(c.Out)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", c.Out, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("could not close %q: %w", c.Out, closeErr)
		}
	}()

	if err := WriteCube(f, l); err != nil {
		return err
	}
	slog.Info("wrote LUT", "file", c.Out, "preset", c.Preset, "size", c.Size)
	return nil
}
