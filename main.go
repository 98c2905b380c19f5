package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"lutpreview/catalog"
	"lutpreview/lut"
	"lutpreview/parallel"
	"lutpreview/render"
)

type cli struct {
	LogLevel  string        `help:"Minimum log level" enum:"debug,info,warn,error" default:"info" env:"LUTPREVIEW_LOG_LEVEL"`
	LogFormat string        `help:"Log output format" enum:"text,json" default:"text" env:"LUTPREVIEW_LOG_FORMAT"`
	Workers   parallel.Size `help:"Number of parallel workers, 0 for one per CPU" default:"0" env:"LUTPREVIEW_WORKERS"`

	Info    lut.InfoCmd    `cmd:"" help:"Show LUT metadata"`
	Apply   render.CLICmd  `cmd:"" help:"Render before/after previews of LUTs applied to a photo"`
	Make    lut.MakeCmd    `cmd:"" help:"Generate a .cube LUT from a preset"`
	Session catalog.CLICmd `cmd:"" help:"Replay a script of catalog actions"`
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func main() {
	// a missing .env is fine, flags and the environment still apply
	_ = godotenv.Load()

	var c cli
	kctx := kong.Parse(&c,
		kong.Name("lutpreview"),
		kong.Description("Preview color look-up tables on a reference photo."),
		kong.UsageOnError(),
	)

	slog.SetDefault(newLogger(c.LogLevel, c.LogFormat))
	slog.Debug("running", "command", kctx.Command(), "workers", c.Workers.Count())

	pool := parallel.Start(c.Workers)
	err := kctx.Run(pool.Do, pool.Wait, c.Workers)
	pool.Wait(true)
	kctx.FatalIfErrorf(err)
}
