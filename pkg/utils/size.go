package utils

import (
	"io/fs"
	"path/filepath"
)

// FolderSize returns the summed size of all files below the given folder.
func FolderSize(target string) (int64, error) {

	var size int64
	err := filepath.WalkDir(target, func(_ string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}
		size += info.Size()

		return nil
	})

	return size, err
}
