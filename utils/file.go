package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// RemoveExt strips the file extension, keeping the rest of the name intact.
func RemoveExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func GetFilenameWithoutExt(path string) (name string) {
	name = filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(path))
	return
}

func EnsureDir(path string) (err error) {
	if path == "" {
		return
	}
	err = os.MkdirAll(path, os.ModePerm)
	return
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
