package native

import (
	"errors"
	"io"
	"io/fs"
	"runtime"

	"github.com/reglet-dev/retrohost/domain/ports"
)

// vfsFile is an open file handed to a core. path stays pinned while the
// handle is open because get_path returns it.
type vfsFile struct {
	file ports.VFSFile
	path []byte
	pin  runtime.Pinner
}

type vfsDir struct {
	dir  ports.VFSDir
	name []byte
	pin  runtime.Pinner
}

// vfsHost implements the retro_vfs_interface operations over a VFSDriver.
// Results follow the C conventions: -1 for failure, zero handles for
// failed opens.
type vfsHost struct {
	driver ports.VFSDriver
	files  *handleTable[*vfsFile]
	dirs   *handleTable[*vfsDir]
}

func newVFSHost(driver ports.VFSDriver) *vfsHost {
	return &vfsHost{
		driver: driver,
		files:  newHandleTable[*vfsFile](),
		dirs:   newHandleTable[*vfsDir](),
	}
}

func pinnedCString(s string, pin *runtime.Pinner) []byte {
	b := append([]byte(s), 0)
	pin.Pin(&b[0])
	return b
}

func (v *vfsHost) open(path string, mode, hints uint32) uintptr {
	f, err := v.driver.Open(path, mode, hints)
	if err != nil {
		return 0
	}
	vf := &vfsFile{file: f}
	vf.path = pinnedCString(path, &vf.pin)
	return v.files.add(vf)
}

func (v *vfsHost) getPath(h uintptr) *byte {
	f, ok := v.files.get(h)
	if !ok {
		return nil
	}
	return &f.path[0]
}

func (v *vfsHost) close(h uintptr) int32 {
	f, ok := v.files.remove(h)
	if !ok {
		return -1
	}
	defer f.pin.Unpin()
	if err := f.file.Close(); err != nil {
		return -1
	}
	return 0
}

func (v *vfsHost) size(h uintptr) int64 {
	f, ok := v.files.get(h)
	if !ok {
		return -1
	}
	n, err := f.file.Size()
	if err != nil {
		return -1
	}
	return n
}

func (v *vfsHost) tell(h uintptr) int64 {
	return v.seek(h, 0, io.SeekCurrent)
}

// seek takes RETRO_VFS_SEEK_POSITION_* origins, which share io's values.
func (v *vfsHost) seek(h uintptr, offset int64, whence int) int64 {
	f, ok := v.files.get(h)
	if !ok || whence < io.SeekStart || whence > io.SeekEnd {
		return -1
	}
	pos, err := f.file.Seek(offset, whence)
	if err != nil {
		return -1
	}
	return pos
}

func (v *vfsHost) read(h uintptr, buf []byte) int64 {
	f, ok := v.files.get(h)
	if !ok {
		return -1
	}
	n, err := io.ReadFull(f.file, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return -1
	}
	return int64(n)
}

func (v *vfsHost) write(h uintptr, buf []byte) int64 {
	f, ok := v.files.get(h)
	if !ok {
		return -1
	}
	n, err := f.file.Write(buf)
	if err != nil && n == 0 {
		return -1
	}
	return int64(n)
}

func (v *vfsHost) flush(h uintptr) int32 {
	f, ok := v.files.get(h)
	if !ok || f.file.Flush() != nil {
		return -1
	}
	return 0
}

func (v *vfsHost) truncate(h uintptr, length int64) int64 {
	f, ok := v.files.get(h)
	if !ok || f.file.Truncate(length) != nil {
		return -1
	}
	return 0
}

func (v *vfsHost) remove(path string) int32 {
	if v.driver.Remove(path) != nil {
		return -1
	}
	return 0
}

func (v *vfsHost) rename(oldPath, newPath string) int32 {
	if v.driver.Rename(oldPath, newPath) != nil {
		return -1
	}
	return 0
}

// stat returns the RETRO_VFS_STAT_* flags and the size truncated to the
// int32 the interface reports.
func (v *vfsHost) stat(path string) (flags, size int32) {
	n, flags := v.driver.Stat(path)
	return flags, int32(n)
}

// mkdir returns 0 on success, -2 if the directory exists and -1 otherwise.
func (v *vfsHost) mkdir(path string) int32 {
	err := v.driver.Mkdir(path)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, fs.ErrExist):
		return -2
	}
	return -1
}

func (v *vfsHost) opendir(path string, includeHidden bool) uintptr {
	d, err := v.driver.OpenDir(path, includeHidden)
	if err != nil {
		return 0
	}
	return v.dirs.add(&vfsDir{dir: d})
}

// readdir advances the listing. The previous entry name stays valid until
// this call.
func (v *vfsHost) readdir(h uintptr) bool {
	d, ok := v.dirs.get(h)
	if !ok || !d.dir.Next() {
		return false
	}
	d.pin.Unpin()
	d.name = pinnedCString(d.dir.Name(), &d.pin)
	return true
}

func (v *vfsHost) direntName(h uintptr) *byte {
	d, ok := v.dirs.get(h)
	if !ok || d.name == nil {
		return nil
	}
	return &d.name[0]
}

func (v *vfsHost) direntIsDir(h uintptr) bool {
	d, ok := v.dirs.get(h)
	return ok && d.dir.IsDir()
}

func (v *vfsHost) closedir(h uintptr) int32 {
	d, ok := v.dirs.remove(h)
	if !ok {
		return -1
	}
	defer d.pin.Unpin()
	if d.dir.Close() != nil {
		return -1
	}
	return 0
}

// closeAll closes what a core left open and returns how many handles that
// was.
func (v *vfsHost) closeAll() int {
	files, dirs := v.files.drain(), v.dirs.drain()
	for _, f := range files {
		_ = f.file.Close()
		f.pin.Unpin()
	}
	for _, d := range dirs {
		_ = d.dir.Close()
		d.pin.Unpin()
	}
	return len(files) + len(dirs)
}
