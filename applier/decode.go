package applier

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"lutpreview/picker"
)

// PhotoExtensions lists the still-image extensions that Decode understands.
func PhotoExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}
}

// PhotoPicker offers a single still image.
var PhotoPicker = picker.Picker{Name: "photo", Extensions: PhotoExtensions()}

// Decode reads the first frame of the image at path. Every failure, including
// a missing file, is reported as a *DecodeError.
func Decode(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", &DecodeError{Path: path, Err: err}
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close image", "name", path, "error", closeErr)
		}
	}()

	img, imgType, err := image.Decode(f)
	if err != nil {
		return nil, "", &DecodeError{Path: path, Err: err}
	}
	if img.Bounds().Empty() {
		return nil, "", &DecodeError{Path: path, Err: errEmptyImage}
	}
	return img, imgType, nil
}
