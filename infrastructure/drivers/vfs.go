package drivers

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/ports"
)

type aferoVFSConfig struct {
	fs       afero.Fs
	root     string
	readOnly bool
	version  uint32
	dirPerm  os.FileMode
	filePerm os.FileMode
}

func defaultAferoVFSConfig() aferoVFSConfig {
	return aferoVFSConfig{
		fs:       afero.NewOsFs(),
		version:  abi.VFSInterfaceVersion,
		dirPerm:  0o755,
		filePerm: 0o644,
	}
}

// AferoVFSOption configures an AferoVFS.
type AferoVFSOption func(*aferoVFSConfig)

// WithFs replaces the backing filesystem, by default the host OS.
func WithFs(fsys afero.Fs) AferoVFSOption {
	return func(c *aferoVFSConfig) {
		c.fs = fsys
	}
}

// WithRoot confines every path below root.
func WithRoot(root string) AferoVFSOption {
	return func(c *aferoVFSConfig) {
		c.root = root
	}
}

// WithReadOnly rejects every operation that would modify the filesystem.
func WithReadOnly(readOnly bool) AferoVFSOption {
	return func(c *aferoVFSConfig) {
		c.readOnly = readOnly
	}
}

// WithVFSVersion caps the VFS interface version offered to cores.
func WithVFSVersion(version uint32) AferoVFSOption {
	return func(c *aferoVFSConfig) {
		c.version = min(version, abi.VFSInterfaceVersion)
	}
}

// AferoVFS serves the libretro VFS interface from an afero filesystem.
type AferoVFS struct {
	fs      afero.Fs
	version uint32
	config  aferoVFSConfig
}

// NewAferoVFS creates an AferoVFS.
func NewAferoVFS(opts ...AferoVFSOption) *AferoVFS {
	cfg := defaultAferoVFSConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	fsys := cfg.fs
	if cfg.root != "" {
		fsys = afero.NewBasePathFs(fsys, cfg.root)
	}
	if cfg.readOnly {
		fsys = afero.NewReadOnlyFs(fsys)
	}
	return &AferoVFS{fs: fsys, version: cfg.version, config: cfg}
}

func (v *AferoVFS) Version() uint32 { return v.version }

// Open maps RETRO_VFS_FILE_ACCESS_* onto open flags. Writing truncates or
// creates the file unless UPDATE_EXISTING is set, in which case the file
// must already exist.
func (v *AferoVFS) Open(path string, mode, _ uint32) (ports.VFSFile, error) {
	flag, err := openFlags(mode)
	if err != nil {
		return nil, err
	}
	f, err := v.fs.OpenFile(path, flag, v.config.filePerm)
	if err != nil {
		return nil, err
	}
	if info, err := f.Stat(); err == nil && info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: is a directory", path)
	}
	return &aferoFile{File: f, path: path}, nil
}

func openFlags(mode uint32) (int, error) {
	update := mode&abi.VFSFileAccessUpdateExisting != 0
	switch mode &^ abi.VFSFileAccessUpdateExisting {
	case abi.VFSFileAccessRead:
		return os.O_RDONLY, nil
	case abi.VFSFileAccessWrite:
		if update {
			return os.O_WRONLY, nil
		}
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, nil
	case abi.VFSFileAccessReadWrite:
		if update {
			return os.O_RDWR, nil
		}
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, nil
	}
	return 0, fmt.Errorf("invalid vfs access mode %#x", mode)
}

func (v *AferoVFS) Remove(path string) error { return v.fs.Remove(path) }

func (v *AferoVFS) Rename(oldPath, newPath string) error { return v.fs.Rename(oldPath, newPath) }

// Stat returns RETRO_VFS_STAT_* flags; zero flags mean path does not exist.
func (v *AferoVFS) Stat(path string) (int64, int32) {
	info, err := v.fs.Stat(path)
	if err != nil {
		return 0, 0
	}
	flags := abi.VFSStatIsValid
	if info.IsDir() {
		flags |= abi.VFSStatIsDirectory
	}
	if info.Mode()&fs.ModeCharDevice != 0 {
		flags |= abi.VFSStatIsCharacterSpecial
	}
	return info.Size(), flags
}

// Mkdir creates path. It returns fs.ErrExist if path is already there.
func (v *AferoVFS) Mkdir(path string) error {
	if _, err := v.fs.Stat(path); err == nil {
		return fs.ErrExist
	}
	err := v.fs.Mkdir(path, v.config.dirPerm)
	if errors.Is(err, fs.ErrExist) {
		return fs.ErrExist
	}
	return err
}

// OpenDir lists path. Entries whose names begin with a dot are skipped
// unless includeHidden is set.
func (v *AferoVFS) OpenDir(path string, includeHidden bool) (ports.VFSDir, error) {
	infos, err := afero.ReadDir(v.fs, path)
	if err != nil {
		return nil, err
	}
	d := &aferoDir{pos: -1}
	for _, info := range infos {
		if !includeHidden && strings.HasPrefix(info.Name(), ".") {
			continue
		}
		d.entries = append(d.entries, info)
	}
	return d, nil
}

type aferoFile struct {
	afero.File
	path string
}

func (f *aferoFile) Path() string { return f.path }

func (f *aferoFile) Size() (int64, error) {
	info, err := f.File.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (f *aferoFile) Flush() error { return f.File.Sync() }

type aferoDir struct {
	entries []os.FileInfo
	pos     int
}

func (d *aferoDir) Next() bool {
	if d.pos+1 >= len(d.entries) {
		d.pos = len(d.entries)
		return false
	}
	d.pos++
	return true
}

func (d *aferoDir) current() os.FileInfo {
	if d.pos < 0 || d.pos >= len(d.entries) {
		return nil
	}
	return d.entries[d.pos]
}

func (d *aferoDir) Name() string {
	if e := d.current(); e != nil {
		return e.Name()
	}
	return ""
}

func (d *aferoDir) IsDir() bool {
	if e := d.current(); e != nil {
		return e.IsDir()
	}
	return false
}

func (d *aferoDir) Close() error {
	d.entries = nil
	return nil
}
