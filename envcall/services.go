package envcall

import (
	"context"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
	"github.com/reglet-dev/retrohost/domain/ports"
)

// LogBundle returns GET_LOG_INTERFACE.
func LogBundle(l ports.LogDriver, res Resources) Bundle {
	if l == nil || res.Thunks == nil {
		return emptyBundle
	}
	return &staticBundle{handlers: map[abi.EnvCmd]Handler{
		abi.EnvGetLogInterface: Query(func() (abi.LogCallback, bool) { return res.Thunks.Log(), true }),
	}}
}

// MessageBundle returns the on-screen message commands.
func MessageBundle(m ports.MessageDriver) Bundle {
	if m == nil {
		return emptyBundle
	}
	h := map[abi.EnvCmd]Handler{}

	h[abi.EnvSetMessage] = Typed(func(_ context.Context, msg *abi.Message) (bool, error) {
		return m.Show(entities.Message{Text: abi.GoString(msg.Msg), Frames: msg.Frames}), nil
	})
	h[abi.EnvGetMessageInterfaceVersion] = Query(func() (uint32, bool) { return abi.MessageInterfaceVersion, true })
	h[abi.EnvSetMessageExt] = Typed(func(_ context.Context, msg *abi.MessageExt) (bool, error) {
		return m.ShowExt(entities.MessageExt{
			Text:     abi.GoString(msg.Msg),
			Duration: msg.Duration,
			Priority: msg.Priority,
			Level:    msg.Level,
			Target:   msg.Target,
			Type:     msg.Type,
			Progress: msg.Progress,
		}), nil
	})
	return &staticBundle{handlers: h}
}

// PathBundle returns the directory queries. A directory the driver leaves
// empty is unsupported.
func PathBundle(p ports.PathDriver, res Resources) Bundle {
	if p == nil || res.Arena == nil {
		return emptyBundle
	}
	dir := func(get func() string) Handler {
		return Typed(func(_ context.Context, out **byte) (bool, error) {
			path := get()
			if path == "" {
				return false, nil
			}
			s, err := res.Arena.CString(path)
			if err != nil {
				return false, err
			}
			*out = s
			return true, nil
		})
	}
	return &staticBundle{handlers: map[abi.EnvCmd]Handler{
		abi.EnvGetSystemDirectory:           dir(p.SystemDir),
		abi.EnvGetSaveDirectory:             dir(p.SaveDir),
		abi.EnvGetCoreAssetsDirectory:       dir(p.CoreAssetsDir),
		abi.EnvGetPlaylistDirectory:         dir(p.PlaylistDir),
		abi.EnvGetFileBrowserStartDirectory: dir(p.FileBrowserStartDir),
		abi.EnvGetLibretroPath:              dir(p.LibretroPath),
	}}
}

// PerfBundle returns GET_PERF_INTERFACE.
func PerfBundle(p ports.PerfDriver, res Resources) Bundle {
	if p == nil || res.Thunks == nil {
		return emptyBundle
	}
	return &staticBundle{handlers: map[abi.EnvCmd]Handler{
		abi.EnvGetPerfInterface: Query(func() (abi.PerfCallback, bool) { return res.Thunks.Perf(), true }),
	}}
}

// LocationBundle returns GET_LOCATION_INTERFACE. Only the host half of the
// table is written; the core's initialized and deinitialized callbacks are
// left as the core set them.
func LocationBundle(l ports.LocationDriver, res Resources) Bundle {
	if l == nil || res.Thunks == nil {
		return emptyBundle
	}
	return &staticBundle{handlers: map[abi.EnvCmd]Handler{
		abi.EnvGetLocationInterface: Typed(func(_ context.Context, cb *abi.LocationCallback) (bool, error) {
			t := res.Thunks.Location()
			cb.Start = t.Start
			cb.Stop = t.Stop
			cb.GetPosition = t.GetPosition
			cb.SetInterval = t.SetInterval
			return true, nil
		}),
	}}
}

// UserBundle returns GET_USERNAME and GET_LANGUAGE.
func UserBundle(u ports.UserDriver, res Resources) Bundle {
	if u == nil {
		return emptyBundle
	}
	h := map[abi.EnvCmd]Handler{}

	if res.Arena != nil {
		h[abi.EnvGetUsername] = Typed(func(_ context.Context, out **byte) (bool, error) {
			name, ok := u.Username()
			if !ok {
				return false, nil
			}
			s, err := res.Arena.CString(name)
			if err != nil {
				return false, err
			}
			*out = s
			return true, nil
		})
	}
	h[abi.EnvGetLanguage] = Query(func() (uint32, bool) {
		lang, ok := u.Language()
		if !ok || lang < 0 || lang >= abi.LanguageLast {
			return 0, false
		}
		return uint32(lang), true
	})
	return &staticBundle{handlers: h}
}

// VFSBundle returns GET_VFS_INTERFACE. A core asking for a newer interface
// than the host implements is refused; otherwise the reply carries the
// version actually provided.
func VFSBundle(v ports.VFSDriver, res Resources) Bundle {
	if v == nil || res.Thunks == nil {
		return emptyBundle
	}
	return &staticBundle{handlers: map[abi.EnvCmd]Handler{
		abi.EnvGetVFSInterface: Typed(func(_ context.Context, info *abi.VFSInterfaceInfo) (bool, error) {
			supported := min(v.Version(), uint32(abi.VFSInterfaceVersion))
			if info.RequiredInterfaceVersion > supported {
				return false, nil
			}
			iface := res.Thunks.VFS(supported)
			if iface == nil {
				return false, nil
			}
			info.RequiredInterfaceVersion = supported
			info.Iface = iface
			return true, nil
		}),
	}}
}
