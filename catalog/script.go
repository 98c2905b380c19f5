package catalog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"lutpreview/lut"
)

// Step is one user action. Exactly one field is set.
type Step struct {
	Add    []string `yaml:"add,omitempty"`
	Photo  string   `yaml:"photo,omitempty"`
	Select string   `yaml:"select,omitempty"`
	Remove bool     `yaml:"remove,omitempty"`
	Clear  bool     `yaml:"clear,omitempty"`
	// View renders the detail pane; the value names the output file.
	View string `yaml:"view,omitempty"`
}

type Script struct {
	Steps []Step `yaml:"steps"`
	// Dir resolves relative paths in steps.
	Dir string `yaml:"-"`
}

var errEmptyStep = errors.New("step has no action")

func (s Step) Action() (string, error) {
	var actions []string
	if len(s.Add) > 0 {
		actions = append(actions, "add")
	}
	if s.Photo != "" {
		actions = append(actions, "photo")
	}
	if s.Select != "" {
		actions = append(actions, "select")
	}
	if s.Remove {
		actions = append(actions, "remove")
	}
	if s.Clear {
		actions = append(actions, "clear")
	}
	if s.View != "" {
		actions = append(actions, "view")
	}

	switch len(actions) {
	case 0:
		return "", errEmptyStep
	case 1:
		return actions[0], nil
	}
	return "", fmt.Errorf("step has several actions: %v", actions)
}

func ReadScript(r io.Reader, dir string) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	script := &Script{Dir: dir}
	if err := dec.Decode(script); err != nil {
		if errors.Is(err, io.EOF) {
			return script, nil
		}
		return nil, fmt.Errorf("could not decode script: %w", err)
	}

	for i, step := range script.Steps {
		if _, err := step.Action(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return script, nil
}

func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open script %q: %w", path, err)
	}
	defer f.Close()

	return ReadScript(f, filepath.Dir(path))
}

// Path resolves p against the script folder.
func (s *Script) Path(p string) string {
	if filepath.IsAbs(p) || s.Dir == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(s.Dir, p)
}

// Viewer receives the detail pane for every view step.
type Viewer func(name string, d Detail) error

// Play runs the script's steps in order against sess. Rejected files surface
// as alerts on the session and do not stop the script; view errors do.
func Play(sess *Session, script *Script, view Viewer) error {
	for i, step := range script.Steps {
		action, err := step.Action()
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}

		switch action {
		case "add":
			sess.AddLUTFiles(script.expand(step.Add)...)
		case "photo":
			sess.SetPhoto(script.Path(step.Photo))
		case "select":
			sess.Select(Reference(script.Path(step.Select)))
		case "remove":
			sess.RemoveSelected()
		case "clear":
			sess.ClearAll()
		case "view":
			if err := view(step.View, sess.Detail()); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		c := sess.Catalog()
		sel, _ := c.Selection()
		photo, _ := c.Photo()
		sess.logger.Info("step done", "step", i+1, "action", action, "state", c.State(),
			"entries", c.Len(), "selection", sel.Name(), "photo", photo.Name())
	}
	return nil
}

// expand resolves paths against the script folder and replaces folders with
// the LUT files they offer, the way the file dialog lists them.
func (s *Script) expand(paths []string) []string {
	var res []string
	for _, p := range paths {
		p = s.Path(p)
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			files, err := lut.Picker.Pick(p)
			if err != nil {
				slog.Warn("nothing to add from folder", "dir", p, "error", err)
				continue
			}
			res = append(res, files...)
			continue
		}
		res = append(res, p)
	}
	return res
}
