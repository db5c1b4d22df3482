package envcall

import (
	"context"
	"unsafe"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
	"github.com/reglet-dev/retrohost/domain/ports"
)

// ContentBundle returns the content descriptor commands: SET_SUPPORT_NO_GAME,
// SET_SUBSYSTEM_INFO, SET_CONTENT_INFO_OVERRIDE and GET_GAME_INFO_EXT.
func ContentBundle(c ports.ContentDriver, res Resources) Bundle {
	if c == nil {
		return emptyBundle
	}
	log := res.logger()

	return &staticBundle{handlers: map[abi.EnvCmd]Handler{
		abi.EnvSetSupportNoGame: Set(func(v bool) bool {
			c.SetSupportNoGame(v)
			return true
		}),

		abi.EnvSetSubsystemInfo: Typed(func(_ context.Context, first *abi.SubsystemInfo) (bool, error) {
			if err := c.SetSubsystems(decodeSubsystems(first)); err != nil {
				log.Warn("rejected subsystem info", "error", err)
				return false, nil
			}
			return true, nil
		}),

		abi.EnvSetContentInfoOverride: func(_ context.Context, data unsafe.Pointer) (bool, error) {
			if data == nil {
				return true, nil
			}
			if err := c.SetOverrides(decodeOverrides((*abi.SystemContentInfoOverride)(data))); err != nil {
				log.Warn("rejected content info override", "error", err)
				return false, nil
			}
			return true, nil
		},

		abi.EnvGetGameInfoExt: Typed(func(_ context.Context, out **abi.GameInfoExt) (bool, error) {
			ext, ok := c.GameInfoExt()
			if !ok {
				return false, nil
			}
			*out = ext
			return true, nil
		}),
	}}
}

func decodeSubsystems(first *abi.SubsystemInfo) entities.Subsystems {
	raw := abi.Terminated(first, func(s *abi.SubsystemInfo) bool { return s.Ident == nil && s.Desc == nil })
	subs := make(entities.Subsystems, len(raw))
	for i, s := range raw {
		subs[i] = entities.SubsystemInfo{
			Desc:  abi.GoString(s.Desc),
			Ident: abi.GoString(s.Ident),
			ID:    s.ID,
		}
		for _, r := range abi.Slice(s.ROMs, s.NumROMs) {
			rom := entities.SubsystemROM{
				Desc:            abi.GoString(r.Desc),
				ValidExtensions: abi.SplitExtensions(abi.GoString(r.ValidExtensions)),
				NeedFullpath:    r.NeedFullpath,
				BlockExtract:    r.BlockExtract,
				Required:        r.Required,
			}
			for _, m := range abi.Slice(r.Memory, r.NumMemory) {
				rom.Memory = append(rom.Memory, entities.SubsystemMemory{
					Extension: abi.GoString(m.Extension),
					Type:      m.Type,
				})
			}
			subs[i].ROMs = append(subs[i].ROMs, rom)
		}
	}
	return subs
}

func decodeOverrides(first *abi.SystemContentInfoOverride) entities.ContentOverrides {
	raw := abi.Terminated(first, func(o *abi.SystemContentInfoOverride) bool { return o.Extensions == nil })
	overrides := make(entities.ContentOverrides, 0, len(raw))
	for _, o := range raw {
		overrides = append(overrides, entities.ContentOverride{
			Extensions:     abi.SplitExtensions(abi.GoString(o.Extensions)),
			NeedFullpath:   o.NeedFullpath,
			PersistentData: o.PersistentData,
		})
	}
	return overrides
}
