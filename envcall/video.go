package envcall

import (
	"context"
	"unsafe"

	"github.com/reglet-dev/retrohost/abi"
	"github.com/reglet-dev/retrohost/domain/entities"
	"github.com/reglet-dev/retrohost/domain/ports"
)

// VideoBundle returns the video negotiation commands. Hardware context
// negotiation interfaces are not offered.
func VideoBundle(v ports.VideoDriver) Bundle {
	if v == nil {
		return emptyBundle
	}
	h := map[abi.EnvCmd]Handler{}

	h[abi.EnvSetRotation] = Set(v.SetRotation)
	h[abi.EnvGetCanDupe] = Query(func() (bool, bool) { return v.CanDupe(), true })
	h[abi.EnvSetPixelFormat] = Set(func(f int32) bool {
		format := abi.PixelFormat(f)
		return format.Valid() && v.SetPixelFormat(format)
	})
	h[abi.EnvSetSystemAVInfo] = Typed(func(_ context.Context, info *abi.SystemAVInfo) (bool, error) {
		return v.SetSystemAVInfo(avInfo(info)), nil
	})
	h[abi.EnvSetGeometry] = Typed(func(_ context.Context, g *abi.GameGeometry) (bool, error) {
		return v.SetGeometry(geometry(g)), nil
	})

	if r, ok := v.(ports.OverscanReporter); ok {
		h[abi.EnvGetOverscan] = Query(func() (bool, bool) { return r.Overscan(), true })
	}
	if fb, ok := v.(ports.SoftwareFramebufferProvider); ok {
		h[abi.EnvGetCurrentSoftwareFramebuffer] = Typed(func(_ context.Context, req *abi.Framebuffer) (bool, error) {
			got, ok := fb.SoftwareFramebuffer(*req)
			if !ok {
				return false, nil
			}
			*req = got
			return true, nil
		})
	}
	if hw, ok := v.(ports.HWRenderer); ok {
		h[abi.EnvSetHWRender] = Typed(func(_ context.Context, cb *abi.HWRenderCallback) (bool, error) {
			return hw.SetHWRender(cb), nil
		})
		h[abi.EnvGetPreferredHWRender] = Query(func() (uint32, bool) {
			ctx, ok := hw.PreferredHWContext()
			return uint32(ctx), ok
		})
		h[abi.EnvSetHWSharedContext] = func(context.Context, unsafe.Pointer) (bool, error) {
			return hw.SetHWSharedContext(), nil
		}
	}
	return &staticBundle{handlers: h}
}

func geometry(g *abi.GameGeometry) entities.Geometry {
	return entities.Geometry{
		BaseWidth:   g.BaseWidth,
		BaseHeight:  g.BaseHeight,
		MaxWidth:    g.MaxWidth,
		MaxHeight:   g.MaxHeight,
		AspectRatio: g.AspectRatio,
	}
}

func avInfo(info *abi.SystemAVInfo) entities.AVInfo {
	return entities.AVInfo{
		Geometry: geometry(&info.Geometry),
		Timing: entities.Timing{
			FPS:        info.Timing.FPS,
			SampleRate: info.Timing.SampleRate,
		},
	}
}
