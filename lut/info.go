package lut

import (
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Info is the metadata view of a LUT file.
type Info struct {
	Filename    string            `yaml:"filename"`
	Title       string            `yaml:"title,omitempty"`
	Description string            `yaml:"description,omitempty"`
	Size        int               `yaml:"size"`
	Dimension   int               `yaml:"dimension"`
	Format      Format            `yaml:"format"`
	Metadata    map[string]string `yaml:"metadata,omitempty"`
}

func (l *LUT) Info(path string) Info {
	return Info{
		Filename:    filepath.Base(path),
		Title:       l.title,
		Description: l.description,
		Size:        l.size,
		Dimension:   int(l.dim),
		Format:      l.format,
		Metadata:    l.Metadata(),
	}
}

func (i Info) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Filename\t%s\n", i.Filename)
	if i.Title != "" {
		fmt.Fprintf(tw, "Title\t%s\n", i.Title)
	}
	if i.Description != "" {
		fmt.Fprintf(tw, "Description\t%s\n", strings.ReplaceAll(i.Description, "\n", " / "))
	}
	fmt.Fprintf(tw, "Size\t%d\n", i.Size)
	fmt.Fprintf(tw, "Dimension\t%dD\n", i.Dimension)
	fmt.Fprintf(tw, "Format\t%s\n", i.Format)
	fmt.Fprintf(tw, "Metadata\t%s\n", i.metadataText())
	return tw.Flush()
}

func (i Info) metadataText() string {
	keys := slices.Sorted(maps.Keys(i.Metadata))
	pairs := make([]string, len(keys))
	for n, k := range keys {
		pairs[n] = k + "=" + i.Metadata[k]
	}
	return "[" + strings.Join(pairs, ", ") + "]"
}

func (i Info) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(i); err != nil {
		return fmt.Errorf("could not encode LUT info: %w", err)
	}
	return enc.Close()
}
