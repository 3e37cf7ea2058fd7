package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Checksum hashes a package tree: sha256 over each file's slash-form
// relative path and contents, walked in sorted order, ignoring .git. The
// same tree always hashes the same, wherever it was checked out.
func Checksum(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("checksum: resolve %s: %w", dir, err)
	}
	h := sha256.New()
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write([]byte{0})
		h.Write(data)
		h.Write([]byte{0})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("checksum: %s: %w", abs, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
