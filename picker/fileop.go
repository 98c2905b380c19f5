package picker

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

func scanDir(dir string, offered func(string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read folder %q: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := filepath.Join(dir, entry.Name())
		if !offered(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			slog.Warn("could not stat file", "file", name, "error", err)
			continue
		}
		if err := checkFile(name, info); err != nil {
			slog.Warn("skipping file", "file", name, "error", err)
			continue
		}
		files = append(files, name)
	}
	return files, nil
}

func checkFile(path string, info fs.FileInfo) error {
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %q: %s", ErrNotRegular, path, info.Mode().String())
	}
	return nil
}
