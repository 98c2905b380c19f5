package lut

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// cubeText writes a size-n .cube table of f with red varying fastest.
func cubeText(header string, n int, f func(r, g, b float64) [3]float64) string {
	var sb strings.Builder
	sb.WriteString(header)
	fmt.Fprintf(&sb, "LUT_3D_SIZE %d\n", n)
	step := 1 / float64(n-1)
	for b := range n {
		for g := range n {
			for r := range n {
				out := f(float64(r)*step, float64(g)*step, float64(b)*step)
				fmt.Fprintf(&sb, "%f %f %f\n", out[0], out[1], out[2])
			}
		}
	}
	return sb.String()
}

func identity(r, g, b float64) [3]float64 { return [3]float64{r, g, b} }

func swapRB(r, g, b float64) [3]float64 { return [3]float64{b, g, r} }

var approx = cmpopts.EquateApprox(0, 1e-6)

func TestParseCube(t *testing.T) {
	src := cubeText(`# Created by a test
# second line
TITLE "Test Cube"
LUT_IN_VIDEO_RANGE
LUT_OUT_VIDEO_RANGE 1
`, 3, identity)

	l, err := Parse(strings.NewReader(src), FormatCube)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if l.Size() != 3 {
		t.Errorf("Size = %d, want 3", l.Size())
	}
	if l.Dimension() != ThreeD {
		t.Errorf("Dimension = %d, want 3", l.Dimension())
	}
	if title, ok := l.Title(); !ok || title != "Test Cube" {
		t.Errorf("Title = %q, %v, want %q", title, ok, "Test Cube")
	}
	if desc, ok := l.Description(); !ok || desc != "Created by a test\nsecond line" {
		t.Errorf("Description = %q, %v", desc, ok)
	}
	wantMeta := map[string]string{"lut_in_video_range": "", "lut_out_video_range": "1"}
	if diff := cmp.Diff(wantMeta, l.Metadata()); diff != "" {
		t.Errorf("Metadata mismatch (-want +got):\n%s", diff)
	}

	for _, in := range [][3]float64{{0, 0, 0}, {1, 1, 1}, {0.5, 0.5, 0.5}, {0.25, 0.75, 0.1}} {
		for _, mode := range []Interpolation{Tetrahedral, Trilinear} {
			if diff := cmp.Diff(in, l.Map(in, mode), approx); diff != "" {
				t.Errorf("%v Map(%v) mismatch (-want +got):\n%s", mode, in, diff)
			}
		}
	}
}

func TestParseCubeRowOrder(t *testing.T) {
	l, err := Parse(strings.NewReader(cubeText("", 2, swapRB)), FormatCube)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	got := l.Map([3]float64{1, 0, 0}, Tetrahedral)
	if diff := cmp.Diff([3]float64{0, 0, 1}, got, approx); diff != "" {
		t.Errorf("Map(red) mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCube1D(t *testing.T) {
	src := `LUT_1D_SIZE 3
0 0 0
0.25 0.5 0.75
1 1 1
`
	l, err := Parse(strings.NewReader(src), FormatCube)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if l.Dimension() != OneD || l.Size() != 3 {
		t.Fatalf("got %dD size %d, want 1D size 3", l.Dimension(), l.Size())
	}

	got := l.Map([3]float64{0.5, 0.5, 0.25}, Tetrahedral)
	if diff := cmp.Diff([3]float64{0.25, 0.5, 0.375}, got, approx); diff != "" {
		t.Errorf("Map mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCubeDomain(t *testing.T) {
	src := cubeText("DOMAIN_MIN 0 0 0\nDOMAIN_MAX 2 2 2\n", 2, identity)
	l, err := Parse(strings.NewReader(src), FormatCube)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	got := l.Map([3]float64{1, 2, 4}, Tetrahedral)
	if diff := cmp.Diff([3]float64{0.5, 1, 1}, got, approx); diff != "" {
		t.Errorf("Map mismatch (-want +got):\n%s", diff)
	}
}

func TestParseUnparseable(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		src    string
	}{
		{"empty", FormatCube, ""},
		{"missing size", FormatCube, "0 0 0\n1 1 1\n"},
		{"short table", FormatCube, "LUT_3D_SIZE 2\n0 0 0\n1 1 1\n"},
		{"bad number", FormatCube, cubeText("", 2, identity) + "x y z\n"},
		{"two values", FormatCube, "LUT_1D_SIZE 2\n0 0\n1 1\n"},
		{"size one", FormatCube, "LUT_3D_SIZE 1\n0 0 0\n"},
		{"both sizes", FormatCube, "LUT_1D_SIZE 2\nLUT_3D_SIZE 2\n0 0 0\n"},
		{"keyword after data", FormatCube, "LUT_1D_SIZE 2\n0 0 0\nTITLE \"late\"\n1 1 1\n"},
		{"empty domain", FormatCube, cubeText("DOMAIN_MIN 1 1 1\nDOMAIN_MAX 1 1 1\n", 2, identity)},
		{"3dl not a cube", Format3DL, "0 0 0\n1 1 1\n"},
		{"3dl negative", Format3DL, "0 0 0\n0 0 -1\n0 1 0\n0 1 1\n1 0 0\n1 0 1\n1 1 0\n1 1 1\n"},
		{"3dl shaper mismatch", Format3DL, "Mesh 1 10\n0 100 200 300\n"},
		{"vlt no size", FormatVLT, "0 0 0\n"},
		{"vlt out of range", FormatVLT, "LUT_3D_SIZE 2\n" + strings.Repeat("5000 0 0\n", 8)},
		{"binary", FormatCube, "\x00\x01\x02garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Parse(strings.NewReader(tt.src), tt.format)
			if !errors.Is(err, ErrUnparseable) {
				t.Errorf("Parse error = %v, want ErrUnparseable", err)
			}
			if l != nil {
				t.Errorf("Parse returned a LUT alongside the error")
			}
		})
	}
}

func Test3DL(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("# lustre export\n")
	for r := range 2 {
		for g := range 2 {
			for b := range 2 {
				out := swapRB(float64(r), float64(g), float64(b))
				fmt.Fprintf(&sb, "%d %d %d\n", int(out[0]*4095), int(out[1]*4095), int(out[2]*4095))
			}
		}
	}

	l, err := Parse(strings.NewReader(sb.String()), Format3DL)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if l.Size() != 2 || l.Format() != Format3DL {
		t.Errorf("got size %d format %s, want size 2 format 3dl", l.Size(), l.Format())
	}
	if got := l.Metadata()["output_scale"]; got != "4095" {
		t.Errorf("output_scale = %q, want 4095", got)
	}
	if desc, _ := l.Description(); desc != "lustre export" {
		t.Errorf("Description = %q", desc)
	}

	got := l.Map([3]float64{1, 0, 0}, Tetrahedral)
	if diff := cmp.Diff([3]float64{0, 0, 1}, got, approx); diff != "" {
		t.Errorf("Map(red) mismatch (-want +got):\n%s", diff)
	}
}

func Test3DLMesh(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("3DMESH\nMesh 1 10\n0 512 1023\n")
	for r := range 3 {
		for g := range 3 {
			for b := range 3 {
				fmt.Fprintf(&sb, "%d %d %d\n", r*1023/2, g*1023/2, b*1023/2)
			}
		}
	}

	l, err := Parse(strings.NewReader(sb.String()), Format3DL)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if l.Size() != 3 {
		t.Errorf("Size = %d, want 3", l.Size())
	}
	if got := l.Metadata()["mesh"]; got != "1 10" {
		t.Errorf("mesh = %q, want %q", got, "1 10")
	}
	got := l.Map([3]float64{1, 1, 1}, Tetrahedral)
	if diff := cmp.Diff([3]float64{1, 1, 1}, got, approx); diff != "" {
		t.Errorf("Map(white) mismatch (-want +got):\n%s", diff)
	}
}

func TestVLT(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("# panasonic vlt file version 1.0\n# source vlt file \"film.vlt\"\nLUT_3D_SIZE 2\n\n")
	for r := range 2 {
		for g := range 2 {
			for b := range 2 {
				fmt.Fprintf(&sb, "%d %d %d\n", r*4095, g*4095, b*4095)
			}
		}
	}

	l, err := Parse(strings.NewReader(sb.String()), FormatVLT)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	wantMeta := map[string]string{"version": "1.0", "source": "film.vlt"}
	if diff := cmp.Diff(wantMeta, l.Metadata()); diff != "" {
		t.Errorf("Metadata mismatch (-want +got):\n%s", diff)
	}
	if _, ok := l.Title(); ok {
		t.Errorf("VLT should have no title")
	}
	in := [3]float64{0.2, 0.6, 0.9}
	if diff := cmp.Diff(in, l.Map(in, Trilinear), approx); diff != "" {
		t.Errorf("Map mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.CUBE")
	if err := os.WriteFile(good, []byte(cubeText("", 2, identity)), 0o644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.3dl")
	if err := os.WriteFile(bad, []byte("not a lut"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(good); err != nil {
		t.Errorf("Load(good) = %v", err)
	}
	if _, err := Load(bad); !errors.Is(err, ErrUnparseable) {
		t.Errorf("Load(bad) = %v, want ErrUnparseable", err)
	}
	if _, err := Load(filepath.Join(dir, "photo.png")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(png) = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.vlt")); err == nil {
		t.Errorf("Load(missing) succeeded")
	}
}

func TestWriteCubeRoundTrip(t *testing.T) {
	want, err := Generate("warm", 5, 0.7, WithTitle("Warm"), WithDescription("line one\nline two"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteCube(&buf, want); err != nil {
		t.Fatalf("WriteCube failed: %v", err)
	}

	got, err := Parse(&buf, FormatCube)
	if err != nil {
		t.Fatalf("Parse failed: %v\n%s", err, buf.String())
	}

	if title, _ := got.Title(); title != "Warm" {
		t.Errorf("Title = %q, want Warm", title)
	}
	if desc, _ := got.Description(); desc != "line one\nline two" {
		t.Errorf("Description = %q", desc)
	}
	if diff := cmp.Diff(want.table, got.table, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpolationAgreesOnGrid(t *testing.T) {
	l, err := Generate("oklab-chroma", 9, 1.5)
	if err != nil {
		t.Fatal(err)
	}

	// at grid points both schemes return the stored value
	for _, in := range [][3]float64{{0, 0, 0}, {0.125, 0.5, 0.875}, {1, 0.25, 0.75}} {
		tet := l.Map(in, Tetrahedral)
		tri := l.Map(in, Trilinear)
		if diff := cmp.Diff(tet, tri, approx); diff != "" {
			t.Errorf("Map(%v) tetrahedral vs trilinear (-tet +tri):\n%s", in, diff)
		}
	}
}

func TestMapClampsOutput(t *testing.T) {
	l, err := FromFunc(2, func(rgb [3]float64) [3]float64 {
		return [3]float64{rgb[0] * 3, rgb[1] - 1, rgb[2]}
	})
	if err != nil {
		t.Fatal(err)
	}

	got := l.Map([3]float64{1, 0.5, math.NaN()}, Tetrahedral)
	for i, v := range got {
		if v < 0 || v > 1 {
			t.Errorf("channel %d = %g, outside [0,1]", i, v)
		}
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		preset string
		amount float64
		in     [3]float64
		want   func(out [3]float64) bool
	}{
		{"identity", 0, [3]float64{0.3, 0.6, 0.9}, func(o [3]float64) bool {
			return cmp.Equal(o, [3]float64{0.3, 0.6, 0.9}, approx)
		}},
		{"invert", 0, [3]float64{0.25, 0.5, 1}, func(o [3]float64) bool {
			return cmp.Equal(o, [3]float64{0.75, 0.5, 0}, approx)
		}},
		{"oklab-chroma", 0, [3]float64{1, 0, 0}, func(o [3]float64) bool {
			return math.Abs(o[0]-o[1]) < 1e-3 && math.Abs(o[1]-o[2]) < 1e-3
		}},
		{"hue-rotate", 120, [3]float64{1, 0, 0}, func(o [3]float64) bool {
			return cmp.Equal(o, [3]float64{0, 1, 0}, cmpopts.EquateApprox(0, 1e-3))
		}},
		{"warm", 1, [3]float64{0.5, 0.5, 0.5}, func(o [3]float64) bool {
			return o[0] > o[1] && o[1] > o[2]
		}},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			l, err := Generate(tt.preset, 17, tt.amount)
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if got := l.Metadata()["preset"]; got != tt.preset {
				t.Errorf("preset metadata = %q", got)
			}
			if out := l.Map(tt.in, Tetrahedral); !tt.want(out) {
				t.Errorf("Map(%v) = %v", tt.in, out)
			}
		})
	}

	if _, err := Generate("sepia", 2, 1); err == nil {
		t.Errorf("Generate accepted an unknown preset")
	}
	if diff := cmp.Diff([]string{"hue-rotate", "identity", "invert", "oklab-chroma", "warm"}, Presets()); diff != "" {
		t.Errorf("Presets mismatch (-want +got):\n%s", diff)
	}
}

func TestInfo(t *testing.T) {
	l, err := Parse(strings.NewReader(cubeText("TITLE \"Film\"\nLUT_OUT_VIDEO_RANGE 1\n", 2, identity)), FormatCube)
	if err != nil {
		t.Fatal(err)
	}

	info := l.Info("/some/where/film.cube")
	want := Info{
		Filename:  "film.cube",
		Title:     "Film",
		Size:      2,
		Dimension: 3,
		Format:    FormatCube,
		Metadata:  map[string]string{"lut_out_video_range": "1"},
	}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("Info mismatch (-want +got):\n%s", diff)
	}

	var text bytes.Buffer
	if err := info.WriteText(&text); err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"Filename", "film.cube", "Title", "Film", "Size", "[lut_out_video_range=1]"} {
		if !strings.Contains(text.String(), s) {
			t.Errorf("text view lacks %q:\n%s", s, text.String())
		}
	}
	if strings.Contains(text.String(), "Description") {
		t.Errorf("text view shows an absent description:\n%s", text.String())
	}

	var y bytes.Buffer
	if err := info.WriteYAML(&y); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(y.String(), "filename: film.cube") || strings.Contains(y.String(), "description") {
		t.Errorf("unexpected yaml view:\n%s", y.String())
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	l, err := FromFunc(2, func(rgb [3]float64) [3]float64 { return rgb }, WithMetadata("k", "v"))
	if err != nil {
		t.Fatal(err)
	}
	l.Metadata()["k"] = "changed"
	if got := l.Metadata()["k"]; got != "v" {
		t.Errorf("metadata changed through accessor: %q", got)
	}
}

func Test3DLFloatOvershoot(t *testing.T) {
	var sb strings.Builder
	for r := range 2 {
		for g := range 2 {
			for b := range 2 {
				// highlights slightly above 1, the way graded exports often are
				fmt.Fprintf(&sb, "%.4f %.4f %.4f\n", float64(r)*1.05, float64(g)*1.05, float64(b)*1.05)
			}
		}
	}

	l, err := Parse(strings.NewReader(sb.String()), Format3DL)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := l.Metadata()["output_scale"]; got != "1" {
		t.Errorf("output_scale = %q, want 1", got)
	}
	got := l.Map([3]float64{0.5, 0, 0}, Tetrahedral)
	if diff := cmp.Diff([3]float64{0.525, 0, 0}, got, approx); diff != "" {
		t.Errorf("Map mismatch (-want +got):\n%s", diff)
	}
}

func Test3DLMeshWithoutShaper(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Mesh 1 10\n")
	for r := range 3 {
		for g := range 3 {
			for b := range 3 {
				fmt.Fprintf(&sb, "%d %d %d\n", r*1023/2, g*1023/2, b*1023/2)
			}
		}
	}

	l, err := Parse(strings.NewReader(sb.String()), Format3DL)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if l.Size() != 3 {
		t.Errorf("Size = %d, want 3", l.Size())
	}
	if shaper, ok := l.Metadata()["shaper"]; ok {
		t.Errorf("first row was read as a shaper: %q", shaper)
	}
	got := l.Map([3]float64{0, 0, 1}, Tetrahedral)
	if diff := cmp.Diff([3]float64{0, 0, 1}, got, approx); diff != "" {
		t.Errorf("Map(blue) mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCubeByteOrderMark(t *testing.T) {
	src := "\ufeff" + cubeText("TITLE \"Marked\"\n", 2, identity)
	l, err := Parse(strings.NewReader(src), FormatCube)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if title, _ := l.Title(); title != "Marked" {
		t.Errorf("Title = %q, want Marked", title)
	}
}

func TestGenerateClipped(t *testing.T) {
	for _, clip := range []string{"adaptive", "keep-lightness", "mid-gray", "clamp"} {
		t.Run(clip, func(t *testing.T) {
			l, err := GenerateClipped("oklab-chroma", clip, 9, 2)
			if err != nil {
				t.Fatalf("GenerateClipped failed: %v", err)
			}
			if got := l.Metadata()["gamut_clip"]; got != clip {
				t.Errorf("gamut_clip metadata = %q, want %q", got, clip)
			}
			for _, v := range l.table {
				if v < 0 || v > 1 {
					t.Fatalf("table value %g outside [0,1]", v)
				}
			}
		})
	}

	if _, err := GenerateClipped("oklab-chroma", "project", 2, 1); err == nil {
		t.Errorf("GenerateClipped accepted an unknown clipper")
	}
	l, err := Generate("invert", 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := l.Metadata()["gamut_clip"]; ok {
		t.Errorf("invert records a gamut clipper")
	}
}

func TestMakeCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sub", "vivid.cube")
	cmd := MakeCmd{Preset: "oklab-chroma", Amount: 1.5, Size: 5, GamutClip: "mid-gray", Title: "Vivid", Out: out}
	if err := cmd.Validate(nil); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	l, err := Load(out)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if title, _ := l.Title(); title != "Vivid" || l.Size() != 5 {
		t.Errorf("got title %q size %d, want Vivid 5", title, l.Size())
	}

	bad := MakeCmd{Size: 5, Out: filepath.Join(t.TempDir(), "vivid.3dl")}
	if err := bad.Validate(nil); err == nil {
		t.Errorf("Validate accepted a .3dl output")
	}
}

func TestInfoCmdSeparators(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.cube")
	if err := os.WriteFile(broken, []byte("LUT_3D_SIZE 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var files []string
	for _, name := range []string{"a.cube", "b.cube"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(cubeText("", 2, identity)), 0o644); err != nil {
			t.Fatal(err)
		}
		files = append(files, path)
	}

	tests := []struct {
		format, sep string
	}{
		{"yaml", "---\n"},
		{"text", "\n\n"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cmd := InfoCmd{Format: tt.format, LUTFiles: append([]string{broken}, files...)}
			var buf bytes.Buffer
			err := cmd.write(&buf)
			if err == nil || !strings.Contains(err.Error(), "error processing 1 files") {
				t.Errorf("write error = %v, want one failed file", err)
			}

			out := buf.String()
			if strings.HasPrefix(out, "---") || strings.HasPrefix(out, "\n") {
				t.Errorf("output starts with a separator:\n%s", out)
			}
			if n := strings.Count(out, tt.sep); n != 1 {
				t.Errorf("got %d separators, want 1:\n%s", n, out)
			}
		})
	}
}
