package content

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"unsafe"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
	rherrors "github.com/reglet-dev/retrohost/domain/errors"
)

// Loader is the part of a core that accepts content.
type Loader interface {
	LoadGame(info *abi.GameInfo) bool
	LoadGameSpecial(gameType uint32, infos []abi.GameInfo) bool
}

// Driver is the standard content provider. It keeps the descriptors a core
// registers and runs load operations against them: resolve, stage, hand to
// the core, then finish or abort staging.
//
// A Driver is used from the core's thread only and does no locking.
type Driver struct {
	system        *entities.SystemInfo
	subsystems    entities.Subsystems
	overrides     entities.ContentOverrides
	supportNoGame bool

	stager *Stager
	arena  *abi.Arena
	logger *slog.Logger

	ext    *abi.GameInfoExt
	extLen int
	loaded []*LoadedContentFile
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithStager replaces the driver's stager.
func WithStager(s *Stager) DriverOption {
	return func(d *Driver) {
		d.stager = s
	}
}

// WithDriverLogger sets the logger. Defaults to slog.Default().
func WithDriverLogger(logger *slog.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = logger
	}
}

// NewDriver creates a content driver whose core-visible descriptors live in
// arena.
func NewDriver(arena *abi.Arena, opts ...DriverOption) *Driver {
	d := &Driver{arena: arena, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	if d.stager == nil {
		d.stager = NewStager(WithStagerLogger(d.logger))
	}
	return d
}

// SystemInfo returns the system descriptor, if set.
func (d *Driver) SystemInfo() (entities.SystemInfo, bool) {
	if d.system == nil {
		return entities.SystemInfo{}, false
	}
	return *d.system, true
}

// SetSystemInfo replaces the system descriptor as a whole.
func (d *Driver) SetSystemInfo(info entities.SystemInfo) error {
	if err := info.Validate(); err != nil {
		return &rherrors.ConfigError{Field: "system_info", Err: err}
	}
	info.ValidExtensions = normalizeAll(info.ValidExtensions)
	d.system = &info
	return nil
}

// Subsystems returns the registered subsystems.
func (d *Driver) Subsystems() entities.Subsystems {
	return d.subsystems
}

// SetSubsystems replaces the subsystem list.
func (d *Driver) SetSubsystems(subs entities.Subsystems) error {
	for i := range subs {
		if err := entities.ValidateStruct(&subs[i]).Err(); err != nil {
			return &rherrors.ConfigError{Field: fmt.Sprintf("subsystem[%d]", i), Err: err}
		}
	}
	d.subsystems = subs
	return nil
}

// SupportNoGame reports whether the core runs without content.
func (d *Driver) SupportNoGame() bool {
	return d.supportNoGame
}

// SetSupportNoGame records SET_SUPPORT_NO_GAME.
func (d *Driver) SetSupportNoGame(supported bool) {
	d.supportNoGame = supported
}

// Overrides returns the content overrides.
func (d *Driver) Overrides() entities.ContentOverrides {
	return d.overrides
}

// SetOverrides replaces the content overrides.
func (d *Driver) SetOverrides(overrides entities.ContentOverrides) error {
	for i, o := range overrides {
		if len(o.Extensions) == 0 {
			return &rherrors.ConfigError{Field: fmt.Sprintf("override[%d].extensions", i), Err: errors.New("no extensions")}
		}
	}
	d.overrides = overrides
	return nil
}

// GameInfoExt returns the extended descriptors of the current load.
func (d *Driver) GameInfoExt() (*abi.GameInfoExt, bool) {
	return d.ext, d.ext != nil
}

// GameInfoExtLen returns the number of entries behind GameInfoExt.
func (d *Driver) GameInfoExtLen() int {
	return d.extLen
}

// Resolver returns a resolver over the current descriptors.
func (d *Driver) Resolver() Resolver {
	return Resolver{
		System:        d.system,
		Subsystems:    d.subsystems,
		Overrides:     d.overrides,
		SupportNoGame: d.supportNoGame,
	}
}

// Loaded returns the files of the last successful load.
func (d *Driver) Loaded() []*LoadedContentFile {
	return d.loaded
}

// Stager returns the driver's stager.
func (d *Driver) Stager() *Stager {
	return d.stager
}

// Load runs retro_load_game for src. NoSource loads without content, which
// the core must allow through SET_SUPPORT_NO_GAME.
func (d *Driver) Load(core Loader, src Source) (*LoadedContentFile, error) {
	if src == nil {
		src = NoSource{}
	}
	var extp *string
	if ext, ok := src.Extension(); ok {
		extp = &ext
	}

	attrs, err := d.Resolver().Resolve(extp, nil)
	if err != nil {
		return nil, withPath(err, Describe(src))
	}
	file, err := d.stager.Stage(src, attrs)
	if err != nil {
		return nil, err
	}
	files := []*LoadedContentFile{file}

	var pinner runtime.Pinner
	defer pinner.Unpin()

	if _, empty := src.(NoSource); empty {
		d.setExt(nil, 0)
		if !core.LoadGame(nil) {
			return nil, d.abort(files, "retro_load_game")
		}
		d.loaded = files
		return file, nil
	}

	info, err := d.gameInfo(file, &pinner)
	if err != nil {
		return nil, d.abort(files, "", err)
	}
	if err := d.buildExt(files, &pinner); err != nil {
		return nil, d.abort(files, "", err)
	}
	infoPtr, err := abi.New(d.arena, info)
	if err != nil {
		return nil, d.abort(files, "", err)
	}

	d.logger.Debug("loading content", "source", Describe(src), "need_fullpath", attrs.NeedFullpath,
		"persistent", attrs.PersistentData, "size", file.Size)
	if !core.LoadGame(infoPtr) {
		return nil, d.abort(files, "retro_load_game")
	}
	if err := d.finish(files); err != nil {
		return nil, err
	}
	return file, nil
}

// LoadSubsystem runs retro_load_game_special. ref names the subsystem by
// ident or numeric id, and sources supplies one item per rom slot in order.
func (d *Driver) LoadSubsystem(core Loader, ref string, sources []Source) ([]*LoadedContentFile, error) {
	sub, ok := d.subsystems.ByIdent(ref)
	if !ok {
		if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
			sub, ok = d.subsystems.ByID(uint32(id))
		}
	}
	if !ok {
		return nil, rherrors.NewContentError("load", "", fmt.Errorf("%w: %q", rherrors.ErrUnknownSubsystem, ref))
	}
	if len(sources) != len(sub.ROMs) {
		return nil, rherrors.NewContentError("load", "", fmt.Errorf("%w: subsystem %s has %d roms, got %d",
			rherrors.ErrSubsystemROMCount, sub.Ident, len(sub.ROMs), len(sources)))
	}

	resolver := d.Resolver()
	files := make([]*LoadedContentFile, 0, len(sources))
	for i, src := range sources {
		if src == nil {
			src = NoSource{}
		}
		var extp *string
		if ext, ok := src.Extension(); ok {
			extp = &ext
		}
		attrs, err := resolver.ResolveSlot(extp, sub, i)
		if err == nil {
			var file *LoadedContentFile
			file, err = d.stager.Stage(src, attrs)
			if err == nil {
				files = append(files, file)
				continue
			}
		}
		var cerr *rherrors.ContentError
		if errors.As(err, &cerr) {
			cerr.Slot = i
			if cerr.Path == "" {
				cerr.Path = Describe(src)
			}
		}
		if aerr := d.stager.Abort(files); aerr != nil {
			d.logger.Warn("releasing staged content failed", "error", aerr)
		}
		return nil, err
	}

	var pinner runtime.Pinner
	defer pinner.Unpin()

	infos := make([]abi.GameInfo, len(files))
	for i, f := range files {
		info, err := d.gameInfo(f, &pinner)
		if err != nil {
			return nil, d.abort(files, "", err)
		}
		infos[i] = info
	}
	if err := d.buildExt(files, &pinner); err != nil {
		return nil, d.abort(files, "", err)
	}
	first, err := abi.NewArray(d.arena, infos)
	if err != nil {
		return nil, d.abort(files, "", err)
	}

	d.logger.Debug("loading subsystem content", "subsystem", sub.Ident, "id", sub.ID, "roms", len(files))
	if !core.LoadGameSpecial(sub.ID, abi.Slice(first, uint32(len(infos)))) {
		return nil, d.abort(files, "retro_load_game_special")
	}
	if err := d.finish(files); err != nil {
		return nil, err
	}
	return files, nil
}

// Close releases all persistent content of the session.
func (d *Driver) Close() error {
	d.setExt(nil, 0)
	d.loaded = nil
	return d.stager.Close()
}

// abort releases a failed operation. With a non-empty op the failure is the
// core rejecting the content; otherwise errs carry the cause.
func (d *Driver) abort(files []*LoadedContentFile, op string, errs ...error) error {
	d.setExt(nil, 0)
	var cause error
	var cerr *rherrors.ContentError
	switch joined := errors.Join(errs...); {
	case op != "":
		cause = &rherrors.CoreError{Op: op, Err: errors.New("core rejected the content")}
	case errors.As(joined, &cerr):
		cause = cerr
	default:
		cause = rherrors.NewContentError("stage", "", joined)
	}
	if err := d.stager.Abort(files); err != nil {
		d.logger.Warn("releasing staged content failed", "error", err)
	}
	return cause
}

// finish completes staging and clears the extended descriptors' data
// references for every transient file.
func (d *Driver) finish(files []*LoadedContentFile) error {
	err := d.stager.Finish(files)
	if d.ext != nil {
		exts := abi.Slice(d.ext, uint32(d.extLen))
		for i, f := range files {
			if i < len(exts) && !f.HasData() {
				exts[i].Data = nil
				exts[i].Size = 0
			}
		}
	}
	d.loaded = files
	if err != nil {
		return rherrors.NewContentError("load", "", err)
	}
	return nil
}

func (d *Driver) setExt(ext *abi.GameInfoExt, n int) {
	d.ext = ext
	d.extLen = n
}

// gameInfo builds the retro_game_info of a staged file. Transient data is
// pinned by pinner for the duration of the load call, persistent data by the
// arena for the session.
func (d *Driver) gameInfo(f *LoadedContentFile, pinner *runtime.Pinner) (abi.GameInfo, error) {
	var info abi.GameInfo
	var err error
	if info.Path, err = d.cstring(f.Path); err != nil {
		return info, err
	}
	if info.Meta, err = d.cstring(f.Meta); err != nil {
		return info, err
	}
	if len(f.Data) > 0 {
		p := unsafe.Pointer(&f.Data[0])
		if f.Persistent {
			if err := d.arena.Pin(p); err != nil {
				return info, err
			}
		} else {
			pinner.Pin(p)
		}
		info.Data = p
		info.Size = uintptr(len(f.Data))
	}
	return info, nil
}

// buildExt builds the retro_game_info_ext array of a load and publishes it
// before the core's load call, during which cores usually query it.
func (d *Driver) buildExt(files []*LoadedContentFile, pinner *runtime.Pinner) error {
	exts := make([]abi.GameInfoExt, len(files))
	for i, f := range files {
		e, err := d.gameInfoExt(f, pinner)
		if err != nil {
			return err
		}
		exts[i] = e
	}
	first, err := abi.NewArray(d.arena, exts)
	if err != nil {
		return err
	}
	d.setExt(first, len(exts))
	return nil
}

func (d *Driver) gameInfoExt(f *LoadedContentFile, pinner *runtime.Pinner) (abi.GameInfoExt, error) {
	var e abi.GameInfoExt
	var fullPath, dir, base, archive, entry string

	switch {
	case f.Archive != "" && f.extracted == "":
		fullPath = f.Archive + "#" + f.Entry
		dir = filepath.Dir(f.Archive)
		base = filepath.Base(f.Entry)
		archive, entry = f.Archive, f.Entry
		e.FileInArchive = true
	case f.Path != "":
		fullPath = f.Path
		dir = filepath.Dir(f.Path)
		base = filepath.Base(f.Path)
	}
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	strs := []struct {
		dst **byte
		val string
	}{
		{&e.FullPath, fullPath},
		{&e.ArchivePath, archive},
		{&e.ArchiveFile, entry},
		{&e.Dir, dir},
		{&e.Name, name},
		{&e.Ext, entities.NormalizeExtension(ext)},
		{&e.Meta, f.Meta},
	}
	for _, s := range strs {
		p, err := d.cstring(s.val)
		if err != nil {
			return e, err
		}
		*s.dst = p
	}

	e.PersistentData = f.Persistent
	if len(f.Data) > 0 {
		p := unsafe.Pointer(&f.Data[0])
		if f.Persistent {
			if err := d.arena.Pin(p); err != nil {
				return e, err
			}
		} else {
			pinner.Pin(p)
		}
		e.Data = p
		e.Size = uintptr(len(f.Data))
	}
	return e, nil
}

func (d *Driver) cstring(s string) (*byte, error) {
	if s == "" {
		return nil, nil
	}
	return d.arena.CString(s)
}

func withPath(err error, path string) error {
	var cerr *rherrors.ContentError
	if errors.As(err, &cerr) && cerr.Path == "" {
		cerr.Path = path
	}
	return err
}

func normalizeAll(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		if n := entities.NormalizeExtension(e); n != "" {
			out = append(out, n)
		}
	}
	return out
}
