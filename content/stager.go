package content

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/reglet-dev/retrohost/domain/entities"
	rherrors "github.com/reglet-dev/retrohost/domain/errors"
)

// LoadedContentFile is one staged content item. At most one of Path and
// Data is what the attributes require; Path may accompany Data as
// information for the core.
type LoadedContentFile struct {
	Path       string
	Data       []byte
	Size       int
	Meta       string
	Persistent bool

	// Archive and Entry are set for content staged from an archive.
	Archive string
	Entry   string

	Attributes entities.ContentAttributes
	Handle     Handle

	buf       buffer
	extracted string
	finished  bool
}

// HasData reports whether the file still references a data buffer.
func (f *LoadedContentFile) HasData() bool {
	return f != nil && f.Data != nil
}

// Stager turns content sources into LoadedContentFiles and owns the
// lifetime of their buffers.
type Stager struct {
	mu       sync.Mutex
	registry *BufferRegistry
	tempRoot string
	tempDir  string
	logger   *slog.Logger
	closed   bool
}

// StagerOption configures a Stager.
type StagerOption func(*Stager)

// WithTempRoot sets the directory archive entries are extracted below.
// Defaults to os.TempDir().
func WithTempRoot(dir string) StagerOption {
	return func(s *Stager) {
		s.tempRoot = dir
	}
}

// WithBufferRegistry shares a persistent buffer registry with the stager.
func WithBufferRegistry(r *BufferRegistry) StagerOption {
	return func(s *Stager) {
		s.registry = r
	}
}

// WithStagerLogger sets the logger. Defaults to slog.Default().
func WithStagerLogger(logger *slog.Logger) StagerOption {
	return func(s *Stager) {
		s.logger = logger
	}
}

// NewStager creates a stager with an empty persistent set.
func NewStager(opts ...StagerOption) *Stager {
	s := &Stager{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = NewBufferRegistry()
	}
	return s
}

// Registry returns the session's persistent buffer set.
func (s *Stager) Registry() *BufferRegistry {
	return s.registry
}

// Stage produces the loaded form of src under attrs. A failed Stage leaves
// nothing behind.
func (s *Stager) Stage(src Source, attrs entities.ContentAttributes) (*LoadedContentFile, error) {
	file := &LoadedContentFile{Attributes: attrs, Persistent: attrs.PersistentData}

	switch src := src.(type) {
	case PathSource:
		file.Path = src.Path
		file.Meta = src.Meta
		if attrs.NeedFullpath {
			return file, nil
		}
		buf, err := mapFile(src.Path)
		if err != nil {
			return nil, rherrors.NewContentError("stage", src.Path, err)
		}
		file.attach(buf)
		return file, nil

	case BytesSource:
		file.Meta = src.Meta
		file.Path = src.Name
		if attrs.NeedFullpath {
			return nil, rherrors.NewContentError("stage", src.Name, rherrors.ErrFullpathRequired)
		}
		data := src.Data
		if data == nil {
			data = []byte{}
		}
		file.attach(&borrowedBuffer{data: data})
		return file, nil

	case ArchiveSource:
		return s.stageArchive(file, src)

	case InfoSource:
		file.Path = src.Path
		file.Meta = src.Meta
		if attrs.NeedFullpath {
			if src.Path == "" {
				return nil, rherrors.NewContentError("stage", "", rherrors.ErrFullpathRequired)
			}
			return file, nil
		}
		if src.Data != nil {
			file.attach(&borrowedBuffer{data: src.Data})
		}
		return file, nil

	case NoSource, nil:
		if attrs.Required {
			return nil, rherrors.NewContentError("stage", "", rherrors.ErrRequiredContent)
		}
		return &LoadedContentFile{Attributes: attrs}, nil

	default:
		return nil, rherrors.NewContentError("stage", "", fmt.Errorf("unknown content source %T", src))
	}
}

func (s *Stager) stageArchive(file *LoadedContentFile, src ArchiveSource) (*LoadedContentFile, error) {
	file.Archive = src.Archive
	file.Entry = src.Entry
	file.Meta = src.Meta
	where := src.Archive + "#" + src.Entry

	if file.Attributes.NeedFullpath {
		if file.Attributes.BlockExtract {
			return nil, rherrors.NewContentError("stage", where, rherrors.ErrExtractionBlocked)
		}
		dir, err := s.extractionDir()
		if err != nil {
			return nil, rherrors.NewContentError("stage", where, err)
		}
		extracted, err := extractEntry(src.Archive, src.Entry, dir)
		if err != nil {
			return nil, rherrors.NewContentError("stage", where, err)
		}
		file.Path = extracted
		file.extracted = extracted
		s.logger.Debug("extracted archive entry", "archive", src.Archive, "entry", src.Entry, "path", extracted)
		return file, nil
	}

	data, err := readEntry(src.Archive, src.Entry)
	if err != nil {
		return nil, rherrors.NewContentError("stage", where, err)
	}
	file.Path = where
	file.attach(&ownedBuffer{data: data})
	return file, nil
}

func (f *LoadedContentFile) attach(buf buffer) {
	f.buf = buf
	f.Data = buf.Bytes()
	f.Size = len(f.Data)
}

// extractionDir returns the session's extraction directory, creating it on
// first use.
func (s *Stager) extractionDir() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", errors.New("stager closed")
	}
	if s.tempDir != "" {
		return s.tempDir, nil
	}
	dir, err := os.MkdirTemp(s.tempRoot, "retrohost-content-")
	if err != nil {
		return "", fmt.Errorf("create extraction dir: %w", err)
	}
	s.tempDir = dir
	return dir, nil
}

// Finish completes a load operation the core accepted. Persistent buffers
// move into the registry. Transient buffers are released and the files'
// data references cleared; paths are kept.
func (s *Stager) Finish(files []*LoadedContentFile) error {
	var errs []error
	for _, f := range files {
		if f == nil || f.finished {
			continue
		}
		f.finished = true
		if f.buf == nil {
			continue
		}
		if f.Persistent {
			h, err := s.registry.add(f.buf)
			if err != nil {
				errs = append(errs, err)
				f.release()
				continue
			}
			f.Handle = h
			f.buf = nil
			continue
		}
		if err := f.release(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Abort releases everything a failed load operation staged, persistent or
// not, including extracted files.
func (s *Stager) Abort(files []*LoadedContentFile) error {
	var errs []error
	for _, f := range files {
		if f == nil || f.finished {
			continue
		}
		f.finished = true
		if err := f.release(); err != nil {
			errs = append(errs, err)
		}
		if f.extracted != "" {
			if err := os.RemoveAll(filepath.Dir(f.extracted)); err != nil {
				errs = append(errs, err)
			}
			f.Path = ""
			f.extracted = ""
		}
	}
	return errors.Join(errs...)
}

func (f *LoadedContentFile) release() error {
	var err error
	if f.buf != nil {
		err = f.buf.Release()
		f.buf = nil
	}
	f.Data = nil
	return err
}

// Close releases the persistent buffers and removes extracted files. It is
// safe to call more than once.
func (s *Stager) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	dir := s.tempDir
	s.tempDir = ""
	s.mu.Unlock()

	err := s.registry.Close()
	if dir != "" {
		if rerr := os.RemoveAll(filepath.Clean(dir)); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}
	return err
}
