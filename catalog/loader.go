package catalog

import (
	"os"
	"path/filepath"
	"strings"
)

// LoadDirectoryImages reads all image files from a directory and adds each
// as a user background, named after its file. Files that fail to decode are
// skipped rather than aborting the scan; callers seeding a user library at
// startup prefer a partial catalog over none.
//
// Arguments:
//   - dir: Directory path containing image files.
//
// Returns:
//   - []Descriptor: Descriptors for the entries that were added.
//   - error: Error if the directory cannot be read.
func (c *Catalog) LoadDirectoryImages(dir string) ([]Descriptor, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var added []Descriptor
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(file.Name()))
		switch ext {
		case ".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff":
			data, readErr := os.ReadFile(filepath.Join(dir, file.Name()))
			if readErr != nil {
				return added, readErr
			}
			name := strings.TrimSuffix(file.Name(), ext)
			desc, addErr := c.AddImage(name, data)
			if addErr != nil {
				continue
			}
			added = append(added, desc)
		}
	}

	return added, nil
}
