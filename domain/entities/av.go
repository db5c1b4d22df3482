package entities

// Geometry is the video geometry reported by a core.
type Geometry struct {
	BaseWidth   uint32  `json:"base_width"`
	BaseHeight  uint32  `json:"base_height"`
	MaxWidth    uint32  `json:"max_width"`
	MaxHeight   uint32  `json:"max_height"`
	AspectRatio float32 `json:"aspect_ratio"`
}

// Timing is the frame and sample rate reported by a core.
type Timing struct {
	FPS        float64 `json:"fps"`
	SampleRate float64 `json:"sample_rate"`
}

// AVInfo combines geometry and timing.
type AVInfo struct {
	Geometry Geometry `json:"geometry"`
	Timing   Timing   `json:"timing"`
}

// Message is an on-screen notification requested by a core.
type Message struct {
	Text   string `json:"text"`
	Frames uint32 `json:"frames"`
}

// MessageExt is the extended notification of SET_MESSAGE_EXT.
type MessageExt struct {
	Text     string `json:"text"`
	Duration uint32 `json:"duration_ms"`
	Priority uint32 `json:"priority"`
	Level    int32  `json:"level"`
	Target   int32  `json:"target"`
	Type     int32  `json:"type"`
	Progress int8   `json:"progress"`
}

// InputDescriptor names one input of a port/device pair.
type InputDescriptor struct {
	Port        uint32 `json:"port"`
	Device      uint32 `json:"device"`
	Index       uint32 `json:"index"`
	ID          uint32 `json:"id"`
	Description string `json:"description"`
}

// ControllerDescription names one device type a port accepts.
type ControllerDescription struct {
	Desc string `json:"desc"`
	ID   uint32 `json:"id"`
}

// ControllerInfo lists the device types of one port.
type ControllerInfo struct {
	Types []ControllerDescription `json:"types"`
}

// MemoryDescriptor is one region of a core's memory map.
type MemoryDescriptor struct {
	Flags      uint64  `json:"flags"`
	Ptr        uintptr `json:"-"`
	Offset     uint64  `json:"offset"`
	Start      uint64  `json:"start"`
	Select     uint64  `json:"select"`
	Disconnect uint64  `json:"disconnect"`
	Len        uint64  `json:"len"`
	AddrSpace  string  `json:"addrspace,omitempty"`
}

// DevicePower reports the host's battery state.
type DevicePower struct {
	State   int32 `json:"state"`
	Seconds int32 `json:"seconds"`
	Percent int8  `json:"percent"`
}

// ThrottleState reports how the host is pacing frames.
type ThrottleState struct {
	Mode uint32  `json:"mode"`
	Rate float32 `json:"rate"`
}

// FastForwardingOverride is the SET_FASTFORWARDING_OVERRIDE request.
type FastForwardingOverride struct {
	Ratio         float32 `json:"ratio"`
	FastForward   bool    `json:"fastforward"`
	Notification  bool    `json:"notification"`
	InhibitToggle bool    `json:"inhibit_toggle"`
}

// Location is one position fix of the location service.
type Location struct {
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	HorizAccuracy float64 `json:"horiz_accuracy"`
	VertAccuracy  float64 `json:"vert_accuracy"`
}
