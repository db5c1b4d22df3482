package envcall

import (
	"context"
	"unsafe"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
	"github.com/reglet-dev/retrohost/domain/ports"
)

// PowerBundle returns GET_DEVICE_POWER.
func PowerBundle(p ports.PowerDriver) Bundle {
	if p == nil {
		return emptyBundle
	}
	return &staticBundle{handlers: map[abi.EnvCmd]Handler{
		abi.EnvGetDevicePower: Query(func() (abi.DevicePower, bool) {
			d := p.DevicePower()
			return abi.DevicePower{State: d.State, Seconds: d.Seconds, Percent: d.Percent}, true
		}),
	}}
}

// TimingBundle returns the pacing commands.
func TimingBundle(t ports.TimingDriver) Bundle {
	if t == nil {
		return emptyBundle
	}
	h := map[abi.EnvCmd]Handler{}

	h[abi.EnvSetFrameTimeCallback] = Set(t.SetFrameTimeCallback)
	h[abi.EnvGetFastForwarding] = Query(func() (bool, bool) { return t.FastForwarding(), true })
	h[abi.EnvGetTargetRefreshRate] = Query(func() (float32, bool) {
		rate := t.TargetRefreshRate()
		return rate, rate > 0
	})
	h[abi.EnvGetThrottleState] = Query(func() (abi.ThrottleState, bool) {
		s := t.ThrottleState()
		return abi.ThrottleState{Mode: s.Mode, Rate: s.Rate}, true
	})
	h[abi.EnvSetFastForwardingOverride] = func(_ context.Context, data unsafe.Pointer) (bool, error) {
		if data == nil {
			return true, nil
		}
		o := (*abi.FastForwardingOverride)(data)
		return t.SetFastForwardingOverride(entities.FastForwardingOverride{
			Ratio:         o.Ratio,
			FastForward:   o.FastForward,
			Notification:  o.Notification,
			InhibitToggle: o.InhibitToggle,
		}), nil
	}
	return &staticBundle{handlers: h}
}

// AVEnableBundle returns GET_AUDIO_VIDEO_ENABLE.
func AVEnableBundle(a ports.AVEnableDriver) Bundle {
	if a == nil {
		return emptyBundle
	}
	return &staticBundle{handlers: map[abi.EnvCmd]Handler{
		abi.EnvGetAudioVideoEnable: Query(func() (int32, bool) { return a.AudioVideoEnable(), true }),
	}}
}

// DiskBundle returns the disk control commands.
func DiskBundle(d ports.DiskDriver) Bundle {
	if d == nil {
		return emptyBundle
	}
	h := map[abi.EnvCmd]Handler{}

	h[abi.EnvSetDiskControlInterface] = Set(d.SetDiskControl)
	h[abi.EnvSetDiskControlExtInterface] = Set(d.SetDiskControlExt)
	h[abi.EnvGetDiskControlInterfaceVersion] = Query(func() (uint32, bool) { return abi.DiskControlVersion, true })
	return &staticBundle{handlers: h}
}

// SessionBundle returns the commands that concern the session itself.
func SessionBundle(s ports.SessionDriver) Bundle {
	if s == nil {
		return emptyBundle
	}
	h := map[abi.EnvCmd]Handler{}

	h[abi.EnvShutdown] = func(context.Context, unsafe.Pointer) (bool, error) {
		s.Shutdown()
		return true, nil
	}
	h[abi.EnvSetPerformanceLevel] = Set(func(level uint32) bool {
		s.SetPerformanceLevel(level)
		return true
	})
	h[abi.EnvSetProcAddressCallback] = Typed(func(_ context.Context, cb *abi.GetProcAddressInterface) (bool, error) {
		s.SetProcAddressCallback(cb.GetProcAddress)
		return true, nil
	})
	h[abi.EnvSetMemoryMaps] = Typed(func(_ context.Context, m *abi.MemoryMap) (bool, error) {
		s.SetMemoryMaps(decodeMemoryMap(m))
		return true, nil
	})
	h[abi.EnvSetSupportAchievements] = Set(func(v bool) bool {
		s.SetSupportAchievements(v)
		return true
	})
	h[abi.EnvSetSerializationQuirks] = Typed(func(_ context.Context, quirks *uint64) (bool, error) {
		*quirks = s.SetSerializationQuirks(*quirks)
		return true, nil
	})
	h[abi.EnvGetSavestateContext] = Query(func() (int32, bool) { return int32(s.SavestateContext()), true })
	h[abi.EnvGetJITCapable] = Query(func() (bool, bool) { return s.JITCapable(), true })
	return &staticBundle{handlers: h}
}

func decodeMemoryMap(m *abi.MemoryMap) []entities.MemoryDescriptor {
	raw := abi.Slice(m.Descriptors, m.NumDescriptors)
	descs := make([]entities.MemoryDescriptor, len(raw))
	for i, d := range raw {
		descs[i] = entities.MemoryDescriptor{
			Flags:      d.Flags,
			Ptr:        uintptr(d.Ptr),
			Offset:     uint64(d.Offset),
			Start:      uint64(d.Start),
			Select:     uint64(d.Select),
			Disconnect: uint64(d.Disconnect),
			Len:        uint64(d.Len),
			AddrSpace:  abi.GoString(d.AddrSpace),
		}
	}
	return descs
}
