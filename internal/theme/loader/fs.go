package loader

import (
	"io/fs"
	"os"
)

// FileSystem is the file access the registry needs. Tests can substitute an
// in-memory implementation.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile calls os.ReadFile.
func (OSFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// ReadDir calls os.ReadDir.
func (OSFS) ReadDir(path string) ([]fs.DirEntry, error) { return os.ReadDir(path) }

// Stat calls os.Stat.
func (OSFS) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }
