package crate

import (
	"os"
	"path/filepath"
)

// dirOracle answers file-existence questions against a local directory
// crate root.
type dirOracle struct {
	root string
}

func (d *dirOracle) Exists(relativePath string) bool {
	// A data entity may be a file or a directory (:
	// "directory without trailing slash" must still resolve), so any
	// successful stat counts as present.
	_, err := os.Stat(filepath.Join(d.root, filepath.FromSlash(relativePath)))
	return err == nil
}

func (d *dirOracle) Close() error {
	return nil
}

// loadDir loads a crate rooted at a local directory.
func loadDir(root string) (*Crate, error) {
	metaPath := filepath.Join(root, MetadataFileName)
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, missingMetadataError(root)
		}
		return nil, crateNotFoundError(root, err)
	}
	return buildCrate(root, data, &dirOracle{root: root})
}
