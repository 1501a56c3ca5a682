// Package images - Image definition for processing utilities.
package images

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// ImageFormat represents supported image formats
type ImageFormat string

// ImageFormat constants
const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatWebP is the WebP image format.
	FormatWebP ImageFormat = "webp"
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
	// FormatBMP is the BMP image format.
	FormatBMP ImageFormat = "bmp"
)

// ErrUnsupportedFormat is returned for file extensions that cannot be decoded.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// extensions maps lower-case file extensions to formats.
var extensions = map[string]ImageFormat{
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".png":  FormatPNG,
	".webp": FormatWebP,
	".bmp":  FormatBMP,
}

// FormatFromPath returns the image format implied by the extension of path.
//
// Arguments:
//   - path: A file name or path.
//
// Returns:
//   - ImageFormat: The detected format.
//   - error: ErrUnsupportedFormat when the extension is unknown.
func FormatFromPath(path string) (ImageFormat, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := extensions[ext]
	if !ok {
		return "", errors.Wrapf(ErrUnsupportedFormat, "extension %q", ext)
	}
	return format, nil
}

// Decode decodes encoded image bytes.
//
// WebP goes through chai2010/webp; everything else goes through imaging, which
// also applies the EXIF orientation of JPEG files so that proposals are computed
// on the image as a viewer would see it.
//
// Arguments:
//   - data: The encoded image.
//   - format: The encoding of data.
//
// Returns:
//   - image.Image: The decoded image.
//   - error: An error if the data is empty or cannot be decoded.
func Decode(data []byte, format ImageFormat) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image data")
	}

	switch format {
	case FormatWebP:
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(err, "decode webp")
		}
		return img, nil
	case FormatJPEG, FormatPNG, FormatBMP:
		img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s", format)
		}
		return img, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "format %q", format)
	}
}

// Load reads and decodes the image file at path.
func Load(path string) (image.Image, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	img, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return img, nil
}
