// Package catalog holds the preview state: the loaded LUT files, the selected
// one and the reference photo.
//
// A Catalog is a value. Every transition returns a new Catalog and leaves the
// receiver untouched, so callers can keep the previous state around.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
)

// Reference locates a LUT file or photo. Its path is also its identity.
type Reference string

// Name is the last path element, the form used in lists and alerts.
func (r Reference) Name() string { return filepath.Base(string(r)) }

type State int

const (
	Empty State = iota
	Browsing
	Previewing
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Browsing:
		return "browsing"
	case Previewing:
		return "previewing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Catalog struct {
	entries   []Reference
	selection Reference
	photo     Reference
}

// Rejections are the file names a batch action could not accept.
type Rejections []string

// Message joins the names the way the alert shows them.
func (r Rejections) Message() string { return strings.Join(r, ", ") }

var (
	errUnknownSelection = errors.New("selection is not a catalog entry")
	errDuplicateEntry   = errors.New("duplicate catalog entry")
	errEmptyReference   = errors.New("empty reference")
)

func (c Catalog) Entries() []Reference { return slices.Clone(c.entries) }

func (c Catalog) Len() int { return len(c.entries) }

func (c Catalog) Contains(ref Reference) bool { return slices.Contains(c.entries, ref) }

func (c Catalog) Selection() (Reference, bool) { return c.selection, c.selection != "" }

func (c Catalog) Photo() (Reference, bool) { return c.photo, c.photo != "" }

func (c Catalog) State() State {
	switch {
	case c.selection != "" && c.photo != "":
		return Previewing
	case len(c.entries) == 0 && c.photo == "":
		return Empty
	}
	return Browsing
}

// AddLUTFiles appends every path that is not yet listed and that the loader
// can parse, in the order given. Paths already present are skipped silently;
// unparseable ones come back as rejections.
func (c Catalog) AddLUTFiles(ld Loader, paths ...string) (Catalog, Rejections) {
	next := c
	next.entries = slices.Clone(c.entries)

	var rejected Rejections
	for _, path := range paths {
		ref := Reference(path)
		if ref == "" || slices.Contains(next.entries, ref) {
			continue
		}

		if _, err := ld.LoadLUT(path); err != nil {
			slog.Debug("rejected LUT", "file", path, "error", err)
			rejected = append(rejected, ref.Name())
			continue
		}
		next.entries = append(next.entries, ref)
	}

	return c.commit(next), rejected
}

// SetPhoto replaces the photo if path decodes; otherwise the photo is kept and
// the path is rejected.
func (c Catalog) SetPhoto(ld Loader, path string) (Catalog, Rejections) {
	ref := Reference(path)
	if _, err := ld.DecodeImage(path); err != nil {
		slog.Debug("rejected photo", "file", path, "error", err)
		return c, Rejections{ref.Name()}
	}

	next := c
	next.photo = ref
	return c.commit(next), nil
}

func (c Catalog) RemoveSelected() Catalog {
	if c.selection == "" {
		return c
	}

	next := c
	next.entries = slices.DeleteFunc(slices.Clone(c.entries), func(r Reference) bool {
		return r == c.selection
	})
	next.selection = ""
	return c.commit(next)
}

func (c Catalog) ClearAll() Catalog {
	return Catalog{}
}

// Select makes ref the selection if it is an entry; anything else is ignored.
func (c Catalog) Select(ref Reference) Catalog {
	if !slices.Contains(c.entries, ref) {
		return c
	}

	next := c
	next.selection = ref
	return c.commit(next)
}

// commit returns next if it is consistent, otherwise the unchanged receiver.
func (c Catalog) commit(next Catalog) Catalog {
	if err := next.validate(); err != nil {
		slog.Error("discarding invalid catalog transition", "error", err)
		return c
	}
	return next
}

func (c Catalog) validate() error {
	seen := make(map[Reference]struct{}, len(c.entries))
	for _, ref := range c.entries {
		if ref == "" {
			return errEmptyReference
		}
		if _, ok := seen[ref]; ok {
			return fmt.Errorf("%w: %q", errDuplicateEntry, ref)
		}
		seen[ref] = struct{}{}
	}

	if c.selection != "" {
		if _, ok := seen[c.selection]; !ok {
			return fmt.Errorf("%w: %q", errUnknownSelection, c.selection)
		}
	}
	return nil
}
