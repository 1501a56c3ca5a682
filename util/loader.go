// Package util - Input discovery for the command line tools.
package util

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/cruiser-KPI/hand-recognition/images"
)

// ImageFile is an image found on disk.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Format is the encoding implied by the file extension.
	Format images.ImageFormat
}

// ListImageFiles returns the decodable image files directly inside dir,
// sorted by file name. Subdirectories and other files are skipped.
//
// Arguments:
// - dir: Directory path containing image files.
//
// Returns:
// - []ImageFile: The image files. Empty, not nil, when dir holds none.
// - error: Error if the directory cannot be read.
func ListImageFiles(dir string) ([]ImageFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", dir)
	}

	files := make([]ImageFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		format, err := images.FormatFromPath(entry.Name())
		if err != nil {
			continue
		}
		files = append(files, ImageFile{
			Path:   filepath.Join(dir, entry.Name()),
			Format: format,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// ResolveInputs expands the -image and -dir command line arguments into a list
// of image files. A single image comes first, followed by the directory listing.
func ResolveInputs(image, dir string) ([]ImageFile, error) {
	var files []ImageFile
	if image != "" {
		format, err := images.FormatFromPath(image)
		if err != nil {
			return nil, err
		}
		files = append(files, ImageFile{Path: image, Format: format})
	}
	if dir != "" {
		listed, err := ListImageFiles(dir)
		if err != nil {
			return nil, err
		}
		files = append(files, listed...)
	}
	if len(files) == 0 {
		return nil, errors.New("no input images")
	}
	return files, nil
}

// AnnotatedPath returns where the annotated copy of the input image name is
// written inside dir. The source extension stays in the name so that a.jpg
// and a.png in one directory do not overwrite each other.
func AnnotatedPath(dir, name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext != "" {
		base = strings.TrimSuffix(base, ext) + "_" + strings.ToLower(ext[1:])
	}
	return filepath.Join(dir, "annotated_"+base+".png")
}
