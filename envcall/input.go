package envcall

import (
	"context"
	"unsafe"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
	"github.com/reglet-dev/retrohost/domain/ports"
)

// InputBundle returns the input negotiation commands of in.
func InputBundle(in ports.InputDriver, _ Resources) Bundle {
	if in == nil {
		return emptyBundle
	}
	h := map[abi.EnvCmd]Handler{}

	if s, ok := in.(ports.InputDescriptorSetter); ok {
		h[abi.EnvSetInputDescriptors] = Typed(func(_ context.Context, first *abi.InputDescriptor) (bool, error) {
			raw := abi.Terminated(first, func(d *abi.InputDescriptor) bool { return d.Description == nil })
			descs := make([]entities.InputDescriptor, len(raw))
			for i, d := range raw {
				descs[i] = entities.InputDescriptor{
					Port:        d.Port,
					Device:      d.Device,
					Index:       d.Index,
					ID:          d.ID,
					Description: abi.GoString(d.Description),
				}
			}
			return s.SetInputDescriptors(descs), nil
		})
	}
	if s, ok := in.(ports.KeyboardCallbackSetter); ok {
		h[abi.EnvSetKeyboardCallback] = Typed(func(_ context.Context, cb *abi.KeyboardCallback) (bool, error) {
			return s.SetKeyboardCallback(cb.Callback), nil
		})
	}
	if r, ok := in.(ports.DeviceCapabilityReporter); ok {
		h[abi.EnvGetInputDeviceCapabilities] = Query(func() (uint64, bool) { return r.DeviceCapabilities(), true })
	}
	if r, ok := in.(ports.MaxUsersReporter); ok {
		h[abi.EnvGetInputMaxUsers] = Query(func() (uint32, bool) { return r.MaxUsers(), true })
	}
	if s, ok := in.(ports.ControllerInfoSetter); ok {
		h[abi.EnvSetControllerInfo] = Typed(func(_ context.Context, first *abi.ControllerInfo) (bool, error) {
			raw := abi.Terminated(first, func(c *abi.ControllerInfo) bool { return c.Types == nil && c.NumTypes == 0 })
			infos := make([]entities.ControllerInfo, len(raw))
			for i, c := range raw {
				for _, t := range abi.Slice(c.Types, c.NumTypes) {
					infos[i].Types = append(infos[i].Types, entities.ControllerDescription{
						Desc: abi.GoString(t.Desc),
						ID:   t.ID,
					})
				}
			}
			return s.SetControllerInfo(infos), nil
		})
	}
	if r, ok := in.(ports.BitmaskReporter); ok {
		h[abi.EnvGetInputBitmasks] = func(context.Context, unsafe.Pointer) (bool, error) {
			return r.SupportsBitmasks(), nil
		}
	}
	return &staticBundle{handlers: h}
}
