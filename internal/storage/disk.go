package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// OutputUsage summarizes the rendered files in an output directory.
type OutputUsage struct {
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"`
}

// ScanOutputDir counts the .docx files under dir and their total size.
// A missing directory is reported as empty.
func ScanOutputDir(dir string) (OutputUsage, error) {
	var u OutputUsage
	if dir == "" {
		return u, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return u, nil
	}
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".docx") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		u.Files++
		u.Bytes += info.Size()
		return nil
	})
	return u, err
}
