package catalog

import (
	"image"

	"lutpreview/applier"
	"lutpreview/lut"
)

// Loader parses LUT files and decodes photos on behalf of the catalog.
type Loader interface {
	LoadLUT(path string) (*lut.LUT, error)
	DecodeImage(path string) (image.Image, error)
}

// FileLoader reads from the local filesystem.
type FileLoader struct{}

func (FileLoader) LoadLUT(path string) (*lut.LUT, error) {
	return lut.Load(path)
}

func (FileLoader) DecodeImage(path string) (image.Image, error) {
	img, _, err := applier.Decode(path)
	return img, err
}
