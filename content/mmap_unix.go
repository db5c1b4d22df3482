//go:build unix

package content

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mappedBuffer is a read-only private file mapping.
type mappedBuffer struct {
	data []byte
}

func (b *mappedBuffer) Bytes() []byte { return b.data }

func (b *mappedBuffer) Release() error {
	if b.data == nil {
		return nil
	}
	err := unix.Munmap(b.data)
	b.data = nil
	if err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}

// mapFile maps path read-only. An empty file yields an empty owned buffer,
// since a zero length mapping is invalid.
func mapFile(path string) (buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	size := info.Size()
	if size == 0 {
		return &ownedBuffer{data: []byte{}}, nil
	}
	if int64(int(size)) != size {
		return nil, fmt.Errorf("%s is too large to map", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &mappedBuffer{data: data}, nil
}
