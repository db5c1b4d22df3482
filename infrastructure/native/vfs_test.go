package native

import (
	"testing"
	"unsafe"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/infrastructure/drivers"
)

func newTestVFSHost(t *testing.T) (*vfsHost, afero.Fs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/saves", 0o755))
	return newVFSHost(drivers.NewAferoVFS(drivers.WithFs(mem))), mem
}

func TestVFSHost_FileLifecycle(t *testing.T) {
	v, mem := newTestVFSHost(t)

	h := v.open("/saves/a.srm", abi.VFSFileAccessReadWrite, 0)
	require.NotZero(t, h)
	assert.Equal(t, "/saves/a.srm", abi.GoString(v.getPath(h)))

	assert.Equal(t, int64(5), v.write(h, []byte("hello")))
	assert.Equal(t, int64(5), v.tell(h))
	assert.Equal(t, int64(5), v.size(h))
	assert.Equal(t, int32(0), v.flush(h))

	assert.Equal(t, int64(1), v.seek(h, 1, int(abi.VFSSeekPositionStart)))
	buf := make([]byte, 8)
	assert.Equal(t, int64(4), v.read(h, buf), "short read at end of file")
	assert.Equal(t, "ello", string(buf[:4]))
	assert.Equal(t, int64(-1), v.seek(h, 0, 7))

	assert.Equal(t, int64(0), v.truncate(h, 2))
	assert.Equal(t, int32(0), v.close(h))
	assert.Equal(t, int32(-1), v.close(h), "double close")
	assert.Nil(t, v.getPath(h))

	data, err := afero.ReadFile(mem, "/saves/a.srm")
	require.NoError(t, err)
	assert.Equal(t, "he", string(data))
}

func TestVFSHost_InvalidHandles(t *testing.T) {
	v, _ := newTestVFSHost(t)

	assert.Zero(t, v.open("/missing/file", abi.VFSFileAccessRead, 0))
	assert.Equal(t, int64(-1), v.size(99))
	assert.Equal(t, int64(-1), v.read(99, make([]byte, 1)))
	assert.Equal(t, int64(-1), v.write(99, []byte{1}))
	assert.Equal(t, int32(-1), v.flush(99))
	assert.Equal(t, int64(-1), v.truncate(99, 0))
	assert.False(t, v.readdir(99))
	assert.Nil(t, v.direntName(99))
	assert.Equal(t, int32(-1), v.closedir(99))
}

func TestVFSHost_PathOperations(t *testing.T) {
	v, mem := newTestVFSHost(t)
	require.NoError(t, afero.WriteFile(mem, "/saves/x", []byte("1234"), 0o644))

	flags, size := v.stat("/saves/x")
	assert.Equal(t, abi.VFSStatIsValid, flags)
	assert.Equal(t, int32(4), size)

	assert.Equal(t, int32(0), v.mkdir("/saves/sub"))
	assert.Equal(t, int32(-2), v.mkdir("/saves/sub"))

	assert.Equal(t, int32(0), v.rename("/saves/x", "/saves/y"))
	assert.Equal(t, int32(0), v.remove("/saves/y"))
	assert.Equal(t, int32(-1), v.remove("/saves/y"))
}

func TestVFSHost_Directories(t *testing.T) {
	v, mem := newTestVFSHost(t)
	require.NoError(t, afero.WriteFile(mem, "/saves/file", nil, 0o644))
	require.NoError(t, mem.Mkdir("/saves/dir", 0o755))

	h := v.opendir("/saves", false)
	require.NotZero(t, h)
	assert.Nil(t, v.direntName(h), "no entry before the first readdir")

	seen := map[string]bool{}
	for v.readdir(h) {
		seen[abi.GoString(v.direntName(h))] = v.direntIsDir(h)
	}
	assert.Equal(t, map[string]bool{"file": false, "dir": true}, seen)
	assert.Equal(t, int32(0), v.closedir(h))

	assert.Zero(t, v.opendir("/nowhere", false))
}

func TestVFSHost_CloseAll(t *testing.T) {
	v, _ := newTestVFSHost(t)
	v.open("/saves/a", abi.VFSFileAccessWrite, 0)
	v.open("/saves/b", abi.VFSFileAccessWrite, 0)
	v.opendir("/saves", true)

	assert.Equal(t, 3, v.closeAll())
	assert.Zero(t, v.closeAll())
}

func TestMicHost(t *testing.T) {
	m := newMicHost(drivers.NewGeneratorMicrophones(drivers.WithMicrophoneRate(22050)))

	h := m.open(nil)
	require.NotZero(t, h)
	assert.Zero(t, m.open(nil), "driver allows one microphone")

	var params abi.MicrophoneParams
	assert.True(t, m.params(h, &params))
	assert.Equal(t, uint32(22050), params.Rate)
	assert.False(t, m.params(h, nil))

	assert.False(t, m.state(h))
	assert.True(t, m.setState(h, true))
	assert.True(t, m.state(h))
	assert.Equal(t, int32(4), m.read(h, make([]int16, 4)))

	m.close(h)
	assert.Equal(t, int32(-1), m.read(h, make([]int16, 4)))
	assert.False(t, m.setState(h, true))

	h = m.open(&abi.MicrophoneParams{Rate: 8000})
	require.NotZero(t, h)
	assert.Equal(t, 1, m.closeAll())
}

func TestPinnedCString(t *testing.T) {
	v, _ := newTestVFSHost(t)
	h := v.open("/saves/pinned", abi.VFSFileAccessWrite, 0)
	p := v.getPath(h)
	require.NotNil(t, p)
	assert.Equal(t, byte(0), *(*byte)(unsafe.Add(unsafe.Pointer(p), len("/saves/pinned"))))
	assert.Equal(t, int32(0), v.close(h))
}
