// Package picker selects input files the way an open dialog would: only
// regular files whose extension is offered, and at most one file unless
// multi-selection is allowed.
package picker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	ErrNotOffered  = errors.New("file type not offered")
	ErrNoSelection = errors.New("nothing selected")
	ErrMultiple    = errors.New("only one file may be selected")
	ErrNotRegular  = errors.New("not a regular file")
)

type Picker struct {
	Name       string
	Extensions []string
	Multiple   bool
}

func (p Picker) Offers(path string) bool {
	return slices.Contains(p.Extensions, strings.ToLower(filepath.Ext(path)))
}

// Pick resolves args to absolute file paths. A directory argument contributes
// every offered regular file directly inside it, in name order; a file
// argument must itself be offered.
func (p Picker) Pick(args ...string) ([]string, error) {
	var picked []string
	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid %s path %q: %w", p.Name, arg, err)
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot stat %s %q: %w", p.Name, arg, err)
		}

		if info.IsDir() {
			files, err := scanDir(path, p.Offers)
			if err != nil {
				return nil, err
			}
			picked = append(picked, files...)
			continue
		}

		if err := checkFile(path, info); err != nil {
			return nil, err
		}
		if !p.Offers(path) {
			return nil, fmt.Errorf("%w: %s %q", ErrNotOffered, p.Name, arg)
		}
		picked = append(picked, path)
	}

	switch {
	case len(picked) == 0:
		return nil, fmt.Errorf("%w: no %s files in %v", ErrNoSelection, p.Name, args)
	case !p.Multiple && len(picked) > 1:
		return nil, fmt.Errorf("%w: got %d %s files", ErrMultiple, len(picked), p.Name)
	}
	return picked, nil
}
