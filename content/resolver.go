package content

import (
	"errors"
	"fmt"

	"github.com/reglet-dev/retrohost/domain/entities"
	rherrors "github.com/reglet-dev/retrohost/domain/errors"
)

// Resolver derives ContentAttributes from the descriptors a core registered.
// It holds no state of its own; the zero value resolves against nothing and
// rejects every extension.
type Resolver struct {
	System        *entities.SystemInfo
	Subsystems    entities.Subsystems
	Overrides     entities.ContentOverrides
	SupportNoGame bool
}

// Resolve computes the attributes of one content item.
//
// ext is nil for in-memory content that carries no extension. rom is the
// subsystem slot being loaded, or nil for a regular load. Each attribute is
// resolved independently, first match wins:
//
//  1. no extension: persistent_data is set and need_fullpath cleared
//  2. a content override for ext sets need_fullpath and persistent_data
//  3. the subsystem rom slot sets need_fullpath, block_extract and required
//  4. the system descriptor sets need_fullpath and block_extract, and
//     required is the inverse of support_no_game
//
// An extension that no override names and that neither the system nor any
// subsystem rom registers is a content error.
func (r Resolver) Resolve(ext *string, rom *entities.SubsystemROM) (entities.ContentAttributes, error) {
	if ext != nil && !r.registered(*ext, rom) {
		return entities.ContentAttributes{}, rherrors.NewContentError("resolve", "",
			fmt.Errorf("%w: %q", rherrors.ErrUnregisteredExtension, *ext))
	}
	if ext == nil && rom == nil && r.System == nil {
		return entities.ContentAttributes{}, rherrors.NewContentError("resolve", "", rherrors.ErrNoSystemInfo)
	}

	var attrs entities.ContentAttributes

	switch {
	case rom != nil:
		attrs.BlockExtract = rom.BlockExtract
		attrs.Required = rom.Required
	case r.System != nil:
		attrs.BlockExtract = r.System.BlockExtract
		attrs.Required = !r.SupportNoGame
	default:
		attrs.Required = !r.SupportNoGame
	}

	if ext == nil {
		attrs.PersistentData = true
		attrs.NeedFullpath = false
		return attrs, nil
	}

	if override, ok := r.Overrides.Lookup(*ext); ok {
		attrs.NeedFullpath = override.NeedFullpath
		attrs.PersistentData = override.PersistentData
		return attrs, nil
	}

	switch {
	case rom != nil:
		attrs.NeedFullpath = rom.NeedFullpath
	case r.System != nil:
		attrs.NeedFullpath = r.System.NeedFullpath
	}
	return attrs, nil
}

// ResolveSlot resolves the attributes of one subsystem slot.
func (r Resolver) ResolveSlot(ext *string, sub *entities.SubsystemInfo, slot int) (entities.ContentAttributes, error) {
	if sub == nil || slot < 0 || slot >= len(sub.ROMs) {
		return entities.ContentAttributes{}, &rherrors.ContentError{
			Op:   "resolve",
			Slot: slot,
			Err:  rherrors.ErrUnknownSubsystem,
		}
	}
	attrs, err := r.Resolve(ext, &sub.ROMs[slot])
	if err != nil {
		var cerr *rherrors.ContentError
		if errors.As(err, &cerr) {
			cerr.Slot = slot
		}
		return entities.ContentAttributes{}, err
	}
	return attrs, nil
}

func (r Resolver) registered(ext string, rom *entities.SubsystemROM) bool {
	if _, ok := r.Overrides.Lookup(ext); ok {
		return true
	}
	if rom != nil && rom.HasExtension(ext) {
		return true
	}
	return r.System.HasExtension(ext) || r.Subsystems.HasExtension(ext)
}
