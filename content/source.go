package content

import (
	"path/filepath"
	"strings"
)

// Source is where one content item comes from. It is a closed set: a
// PathSource, BytesSource, ArchiveSource, InfoSource or NoSource.
type Source interface {
	// Extension returns the item's type tag. ok is false for content that
	// has none, such as an anonymous in-memory buffer.
	Extension() (ext string, ok bool)
	source()
}

// PathSource is a file on the host filesystem.
type PathSource struct {
	Path string
	Meta string
}

// BytesSource is an in-memory buffer. Ext is the buffer's type tag; an empty
// Ext marks content without one. Name, when set, is reported to the core as
// the content's path base.
type BytesSource struct {
	Data []byte
	Ext  string
	Name string
	Meta string
}

// ArchiveSource is one entry of a zip archive on the host filesystem.
type ArchiveSource struct {
	Archive string
	Entry   string
	Meta    string
}

// InfoSource is a descriptor built by the caller. It is staged as given,
// subject to the same path and data checks as the other kinds.
type InfoSource struct {
	Path string
	Data []byte
	Meta string
}

// NoSource is an absent content item.
type NoSource struct{}

func (s PathSource) Extension() (string, bool)    { return extensionOf(s.Path) }
func (s ArchiveSource) Extension() (string, bool) { return extensionOf(s.Entry) }
func (NoSource) Extension() (string, bool)        { return "", false }

func (s BytesSource) Extension() (string, bool) {
	ext := strings.TrimPrefix(s.Ext, ".")
	return ext, ext != ""
}

func (s InfoSource) Extension() (string, bool) {
	if s.Path == "" {
		return "", false
	}
	return extensionOf(s.Path)
}

func (PathSource) source()    {}
func (BytesSource) source()   {}
func (ArchiveSource) source() {}
func (InfoSource) source()    {}
func (NoSource) source()      {}

// extensionOf returns the extension of path without its dot. A path with no
// extension still has a type tag, the empty one, which no core registers.
func extensionOf(path string) (string, bool) {
	return strings.TrimPrefix(filepath.Ext(path), "."), true
}

// Describe returns a short human readable name for src, for logs and errors.
func Describe(src Source) string {
	switch s := src.(type) {
	case PathSource:
		return s.Path
	case ArchiveSource:
		return s.Archive + "#" + s.Entry
	case BytesSource:
		if s.Name != "" {
			return s.Name
		}
		return "<memory>"
	case InfoSource:
		if s.Path != "" {
			return s.Path
		}
		return "<descriptor>"
	default:
		return "<none>"
	}
}
