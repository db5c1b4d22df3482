package ports

import "io"

// VFSFile is an open file of the virtual filesystem.
type VFSFile interface {
	io.Reader
	io.Writer
	io.Seeker
	Path() string
	Size() (int64, error)
	Truncate(size int64) error
	Flush() error
	Close() error
}

// VFSDir is an open directory listing.
type VFSDir interface {
	Next() bool
	Name() string
	IsDir() bool
	Close() error
}

// VFSDriver backs the VFS interface handed to cores.
type VFSDriver interface {
	// Version is the highest VFS interface version supported.
	Version() uint32
	Open(path string, mode, hints uint32) (VFSFile, error)
	Remove(path string) error
	Rename(oldPath, newPath string) error
	// Stat returns the size and RETRO_VFS_STAT_* flags of path; flags are
	// zero when path does not exist.
	Stat(path string) (size int64, flags int32)
	// Mkdir returns ErrExist when the directory already exists.
	Mkdir(path string) error
	OpenDir(path string, includeHidden bool) (VFSDir, error)
}
