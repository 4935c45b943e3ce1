// Package proc reads process identity and CPU counters from a procfs tree.
package proc

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"strconv"
)

// DefaultRoot is the procfs mount point used when none is configured.
const DefaultRoot = "/proc"

var (
	// ErrNoOwner is returned when a status record carries no usable Uid line.
	ErrNoOwner = errors.New("owner uid not found")
	// ErrMalformedStat is returned when a stat record cannot be parsed.
	ErrMalformedStat = errors.New("malformed stat record")
)

// Reader lists processes and reads their status and stat records.
// Every lookup opens and releases its own handle.
type Reader struct {
	fsys fs.FS
}

// NewReader returns a Reader rooted at a procfs directory such as /proc.
func NewReader(root string) *Reader {
	if root == "" {
		root = DefaultRoot
	}
	return &Reader{fsys: os.DirFS(root)}
}

// NewReaderFS returns a Reader over an arbitrary file system laid out like procfs.
func NewReaderFS(fsys fs.FS) *Reader {
	return &Reader{fsys: fsys}
}

func pidPath(pid int, name string) string {
	return path.Join(strconv.Itoa(pid), name)
}
