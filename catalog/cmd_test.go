package catalog

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"lutpreview/applier"
)

func TestSessionCommandWritesComparison(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "luts"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeCube(t, filepath.Join(dir, "luts", "film.cube"), "invert")

	f, err := os.Create(filepath.Join(dir, "photo.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 10, 4))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	script := filepath.Join(dir, "session.yaml")
	src := "steps:\n  - add: [luts]\n  - select: luts/film.cube\n  - view: info\n  - photo: photo.png\n  - view: compare\n"
	if err := os.WriteFile(script, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := CLICmd{
		Script:        script,
		Dest:          "views",
		Format:        "png",
		InfoFormat:    "yaml",
		Gutter:        3,
		Background:    "#fff",
		Interpolation: "trilinear",
	}
	if err := cmd.Validate(nil); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if err := cmd.Run(1); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	img, _, err := applier.Decode(filepath.Join(dir, "views", "compare.png"))
	if err != nil {
		t.Fatalf("comparison view not written: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 23, 4) {
		t.Errorf("bounds = %v, want (0,0)-(23,4)", img.Bounds())
	}
	if _, err := os.Stat(filepath.Join(dir, "views", "info.png")); !os.IsNotExist(err) {
		t.Errorf("metadata view wrote an image: %v", err)
	}
}

func TestSessionCommandValidate(t *testing.T) {
	dir := t.TempDir()
	cmd := CLICmd{Script: dir, Background: "#000"}
	if err := cmd.Validate(nil); err == nil {
		t.Errorf("Validate accepted a folder as script")
	}

	script := filepath.Join(dir, "s.yaml")
	if err := os.WriteFile(script, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cmd = CLICmd{Script: script, Background: "black"}
	if err := cmd.Validate(nil); err == nil {
		t.Errorf("Validate accepted an invalid background")
	}
}
