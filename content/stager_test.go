package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/retrohost/domain/entities"
	rherrors "github.com/reglet-dev/retrohost/domain/errors"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func writeZip(t *testing.T, entries map[string][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, data := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func newTestStager(t *testing.T) *Stager {
	t.Helper()
	s := NewStager(WithTempRoot(t.TempDir()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStager_PathFullpath(t *testing.T) {
	s := newTestStager(t)

	file, err := s.Stage(PathSource{Path: "/does/not/need/to/exist.rom"}, entities.ContentAttributes{NeedFullpath: true})
	require.NoError(t, err)
	assert.Equal(t, "/does/not/need/to/exist.rom", file.Path)
	assert.Nil(t, file.Data)
	assert.Zero(t, file.Size)
}

func TestStager_PathMapped(t *testing.T) {
	s := newTestStager(t)
	path := writeFile(t, "game.rom", []byte("ROMDATA"))

	file, err := s.Stage(PathSource{Path: path}, entities.ContentAttributes{})
	require.NoError(t, err)
	assert.Equal(t, path, file.Path)
	assert.Equal(t, []byte("ROMDATA"), file.Data)
	assert.Equal(t, 7, file.Size)
}

func TestStager_PathMissing(t *testing.T) {
	s := newTestStager(t)

	_, err := s.Stage(PathSource{Path: filepath.Join(t.TempDir(), "missing.rom")}, entities.ContentAttributes{})
	var cerr *rherrors.ContentError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "stage", cerr.Op)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStager_PersistentLifetime(t *testing.T) {
	path := writeFile(t, "game.rom", []byte("persistent"))

	t.Run("persistent survives the load", func(t *testing.T) {
		s := newTestStager(t)
		file, err := s.Stage(PathSource{Path: path}, entities.ContentAttributes{PersistentData: true})
		require.NoError(t, err)

		require.NoError(t, s.Finish([]*LoadedContentFile{file}))
		assert.True(t, file.HasData())
		assert.Equal(t, []byte("persistent"), file.Data)
		assert.Equal(t, 1, s.Registry().Len())

		data, ok := s.Registry().Bytes(file.Handle)
		require.True(t, ok)
		assert.Equal(t, []byte("persistent"), data)

		require.NoError(t, s.Close())
		assert.Equal(t, 0, s.Registry().Len())
	})

	t.Run("transient is released after the load", func(t *testing.T) {
		s := newTestStager(t)
		file, err := s.Stage(PathSource{Path: path}, entities.ContentAttributes{PersistentData: false})
		require.NoError(t, err)
		require.True(t, file.HasData())

		require.NoError(t, s.Finish([]*LoadedContentFile{file}))
		assert.False(t, file.HasData())
		assert.Nil(t, file.buf)
		assert.Equal(t, path, file.Path, "path is kept")
		assert.Equal(t, 0, s.Registry().Len())
	})
}

func TestStager_Bytes(t *testing.T) {
	s := newTestStager(t)
	data := []byte{1, 2, 3}

	t.Run("wrapped without copy", func(t *testing.T) {
		file, err := s.Stage(BytesSource{Data: data, Ext: "rom"}, entities.ContentAttributes{})
		require.NoError(t, err)
		require.Len(t, file.Data, 3)
		assert.Same(t, &data[0], &file.Data[0])
		assert.Empty(t, file.Path)
	})

	t.Run("cannot satisfy fullpath", func(t *testing.T) {
		_, err := s.Stage(BytesSource{Data: data}, entities.ContentAttributes{NeedFullpath: true})
		assert.ErrorIs(t, err, rherrors.ErrFullpathRequired)
	})
}

func TestStager_Absent(t *testing.T) {
	s := newTestStager(t)

	_, err := s.Stage(NoSource{}, entities.ContentAttributes{Required: true})
	var cerr *rherrors.ContentError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, rherrors.ErrRequiredContent)

	file, err := s.Stage(NoSource{}, entities.ContentAttributes{Required: false})
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Empty(t, file.Path)
	assert.Nil(t, file.Data)
	assert.Zero(t, file.Size)
}

func TestStager_Archive(t *testing.T) {
	archive := writeZip(t, map[string][]byte{"dir/game.rom": []byte("zipped rom")})

	t.Run("extracts for fullpath", func(t *testing.T) {
		s := newTestStager(t)
		file, err := s.Stage(ArchiveSource{Archive: archive, Entry: "dir/game.rom"}, entities.ContentAttributes{NeedFullpath: true})
		require.NoError(t, err)
		assert.Nil(t, file.Data)
		assert.Equal(t, "game.rom", filepath.Base(file.Path))

		got, err := os.ReadFile(file.Path)
		require.NoError(t, err)
		assert.Equal(t, []byte("zipped rom"), got)

		require.NoError(t, s.Close())
		_, err = os.Stat(file.Path)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("extraction blocked", func(t *testing.T) {
		s := newTestStager(t)
		_, err := s.Stage(ArchiveSource{Archive: archive, Entry: "dir/game.rom"},
			entities.ContentAttributes{NeedFullpath: true, BlockExtract: true})
		assert.ErrorIs(t, err, rherrors.ErrExtractionBlocked)
	})

	t.Run("reads into memory", func(t *testing.T) {
		s := newTestStager(t)
		file, err := s.Stage(ArchiveSource{Archive: archive, Entry: "dir/game.rom"}, entities.ContentAttributes{})
		require.NoError(t, err)
		assert.Equal(t, []byte("zipped rom"), file.Data)
	})

	t.Run("missing entry", func(t *testing.T) {
		s := newTestStager(t)
		_, err := s.Stage(ArchiveSource{Archive: archive, Entry: "nope.rom"}, entities.ContentAttributes{})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestStager_ArchiveSameBaseName(t *testing.T) {
	s := newTestStager(t)
	first := writeZip(t, map[string][]byte{"game.rom": []byte("first")})
	second := writeZip(t, map[string][]byte{"sub/game.rom": []byte("second")})
	attrs := entities.ContentAttributes{NeedFullpath: true}

	a, err := s.Stage(ArchiveSource{Archive: first, Entry: "game.rom"}, attrs)
	require.NoError(t, err)
	b, err := s.Stage(ArchiveSource{Archive: second, Entry: "sub/game.rom"}, attrs)
	require.NoError(t, err)

	assert.NotEqual(t, a.Path, b.Path)
	assert.Equal(t, "game.rom", filepath.Base(a.Path))
	assert.Equal(t, "game.rom", filepath.Base(b.Path))
	for path, want := range map[string]string{a.Path: "first", b.Path: "second"} {
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}

	aPath := a.Path
	require.NoError(t, s.Abort([]*LoadedContentFile{a}))
	_, err = os.Stat(filepath.Dir(aPath))
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(b.Path)
	assert.NoError(t, err)
}

func TestStager_InfoSource(t *testing.T) {
	s := newTestStager(t)

	file, err := s.Stage(InfoSource{Path: "/x/y.rom", Data: []byte("abc")}, entities.ContentAttributes{})
	require.NoError(t, err)
	assert.Equal(t, "/x/y.rom", file.Path)
	assert.Equal(t, []byte("abc"), file.Data)

	_, err = s.Stage(InfoSource{Data: []byte("abc")}, entities.ContentAttributes{NeedFullpath: true})
	assert.ErrorIs(t, err, rherrors.ErrFullpathRequired)
}

func TestStager_AbortReleasesEverything(t *testing.T) {
	s := newTestStager(t)
	path := writeFile(t, "a.rom", []byte("aaaa"))
	archive := writeZip(t, map[string][]byte{"b.rom": []byte("bbbb")})

	mapped, err := s.Stage(PathSource{Path: path}, entities.ContentAttributes{PersistentData: true})
	require.NoError(t, err)
	extracted, err := s.Stage(ArchiveSource{Archive: archive, Entry: "b.rom"}, entities.ContentAttributes{NeedFullpath: true})
	require.NoError(t, err)
	extractedPath := extracted.Path

	require.NoError(t, s.Abort([]*LoadedContentFile{mapped, extracted}))
	assert.False(t, mapped.HasData())
	assert.Equal(t, 0, s.Registry().Len())
	_, err = os.Stat(extractedPath)
	assert.ErrorIs(t, err, os.ErrNotExist)

	// Finishing an aborted file is a no-op.
	require.NoError(t, s.Finish([]*LoadedContentFile{mapped}))
	assert.Equal(t, 0, s.Registry().Len())
}

func TestBufferRegistry_CloseOnce(t *testing.T) {
	r := NewBufferRegistry()
	b := &ownedBuffer{data: []byte("x")}
	h, err := r.add(b)
	require.NoError(t, err)

	got, ok := r.Bytes(h)
	require.True(t, ok)
	assert.Equal(t, []byte("x"), got)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.Nil(t, b.data)
	_, err = r.add(&ownedBuffer{})
	assert.ErrorIs(t, err, ErrRegistryClosed)
}

func TestSource_Extension(t *testing.T) {
	cases := []struct {
		src    Source
		ext    string
		hasExt bool
	}{
		{PathSource{Path: "/a/b/game.SFC"}, "SFC", true},
		{PathSource{Path: "/a/b/README"}, "", true},
		{BytesSource{Ext: ".rom"}, "rom", true},
		{BytesSource{}, "", false},
		{ArchiveSource{Archive: "x.zip", Entry: "in/disk.iso"}, "iso", true},
		{InfoSource{}, "", false},
		{NoSource{}, "", false},
	}
	for _, tc := range cases {
		ext, ok := tc.src.Extension()
		assert.Equal(t, tc.ext, ext, Describe(tc.src))
		assert.Equal(t, tc.hasExt, ok, Describe(tc.src))
	}
}
