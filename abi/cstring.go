package abi

import (
	"strings"
	"unsafe"

	"github.com/reglet-dev/retrohost/domain/entities"
)

// MaxCStringLen bounds the scan for a terminating NUL in GoString.
const MaxCStringLen = 1 << 20

// GoString copies a NUL-terminated C string into Go memory.
// A nil pointer yields the empty string.
func GoString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for n < MaxCStringLen {
		if *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) == 0 {
			break
		}
		n++
	}
	return string(unsafe.Slice(p, n))
}

// GoStringOK is GoString that also reports whether p was non-nil.
func GoStringOK(p *byte) (string, bool) {
	if p == nil {
		return "", false
	}
	return GoString(p), true
}

// Bytes returns a view of n bytes starting at p without copying.
func Bytes(p unsafe.Pointer, n uintptr) []byte {
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}

// Slice returns a view of n consecutive T values starting at p.
func Slice[T any](p *T, n uint32) []T {
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice(p, n)
}

// Terminated walks a C array starting at p until isEnd reports the
// terminating entry, returning a view of the entries before it.
func Terminated[T any](p *T, isEnd func(*T) bool) []T {
	if p == nil {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	n := 0
	for !isEnd((*T)(unsafe.Add(unsafe.Pointer(p), uintptr(n)*size))) {
		n++
	}
	return unsafe.Slice(p, n)
}

// SplitExtensions splits a "a|b|c" extension list, dropping empty entries
// and normalizing to lower case without leading dots.
func SplitExtensions(list string) []string {
	if list == "" {
		return nil
	}
	parts := strings.Split(list, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = entities.NormalizeExtension(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

