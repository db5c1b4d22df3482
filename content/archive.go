package content

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// MaxArchiveEntryBytes bounds the uncompressed size of an entry read into
// memory or extracted to disk.
const MaxArchiveEntryBytes = 512 * 1024 * 1024 // 512 MB

// openEntry opens the named entry of a zip archive. The returned closer
// closes both the entry and the archive.
func openEntry(archive, entry string) (io.ReadCloser, uint64, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, 0, fmt.Errorf("open archive: %w", err)
	}

	want := path.Clean(strings.TrimPrefix(filepath.ToSlash(entry), "/"))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || path.Clean(f.Name) != want {
			continue
		}
		if f.UncompressedSize64 > MaxArchiveEntryBytes {
			zr.Close()
			return nil, 0, fmt.Errorf("archive entry %s is %d bytes, limit %d", entry, f.UncompressedSize64, MaxArchiveEntryBytes)
		}
		rc, err := f.Open()
		if err != nil {
			zr.Close()
			return nil, 0, fmt.Errorf("open archive entry %s: %w", entry, err)
		}
		return &entryReader{ReadCloser: rc, archive: zr}, f.UncompressedSize64, nil
	}
	zr.Close()
	return nil, 0, fmt.Errorf("archive entry %s: %w", entry, os.ErrNotExist)
}

type entryReader struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (r *entryReader) Close() error {
	err := r.ReadCloser.Close()
	if cerr := r.archive.Close(); err == nil {
		err = cerr
	}
	return err
}

// readEntry reads an archive entry into memory.
func readEntry(archive, entry string) ([]byte, error) {
	rc, size, err := openEntry(archive, entry)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, int64(size)+1))
	if err != nil {
		return nil, fmt.Errorf("read archive entry %s: %w", entry, err)
	}
	if uint64(len(data)) > size {
		return nil, fmt.Errorf("archive entry %s is larger than its header claims", entry)
	}
	return data, nil
}

// extractEntry writes an archive entry into a fresh subdirectory of dir and
// returns the path of the extracted file. Only the entry's base name is used,
// so an entry can never escape dir, and entries sharing a base name each get
// their own subdirectory.
func extractEntry(archive, entry, dir string) (string, error) {
	name := path.Base(filepath.ToSlash(entry))
	if name == "." || name == "/" || name == ".." {
		return "", fmt.Errorf("archive entry %q has no file name", entry)
	}

	rc, _, err := openEntry(archive, entry)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	sub, err := os.MkdirTemp(dir, "entry-")
	if err != nil {
		return "", fmt.Errorf("create extraction dir: %w", err)
	}
	target := filepath.Join(sub, name)

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		os.RemoveAll(sub)
		return "", fmt.Errorf("create extracted file: %w", err)
	}
	n, err := io.Copy(out, io.LimitReader(rc, MaxArchiveEntryBytes+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > MaxArchiveEntryBytes {
		err = fmt.Errorf("archive entry %s exceeds %d bytes", entry, MaxArchiveEntryBytes)
	}
	if err != nil {
		os.RemoveAll(sub)
		return "", fmt.Errorf("extract %s: %w", entry, err)
	}
	return target, nil
}
