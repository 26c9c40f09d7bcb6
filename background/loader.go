package background

import (
	"bytes"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// LoadImageFile reads and decodes a still image from disk. Decoding honors
// EXIF orientation so user photos composite the way they preview.
func LoadImageFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "background: read image")
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "background: decode image %s", path)
	}
	return img, nil
}
