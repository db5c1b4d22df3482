//go:build !unix

package content

import "os"

// mapFile reads path into an owned buffer on platforms without mmap.
func mapFile(path string) (buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &ownedBuffer{data: data}, nil
}
