package abi

import "unsafe"

// APIVersion is the libretro API version this host implements.
const APIVersion = 1

// NumCoreOptionValuesMax is the fixed capacity of a core option value array.
const NumCoreOptionValuesMax = 128

// The structs below mirror libretro.h field for field. Pointer-sized C types
// map to uintptr or typed pointers, C bool to Go bool, enums to int32/uint32.

// GameInfo mirrors struct retro_game_info.
type GameInfo struct {
	Path *byte
	Data unsafe.Pointer
	Size uintptr
	Meta *byte
}

// GameInfoExt mirrors struct retro_game_info_ext.
type GameInfoExt struct {
	FullPath       *byte
	ArchivePath    *byte
	ArchiveFile    *byte
	Dir            *byte
	Name           *byte
	Ext            *byte
	Meta           *byte
	Data           unsafe.Pointer
	Size           uintptr
	FileInArchive  bool
	PersistentData bool
}

// SystemInfo mirrors struct retro_system_info.
type SystemInfo struct {
	LibraryName     *byte
	LibraryVersion  *byte
	ValidExtensions *byte
	NeedFullpath    bool
	BlockExtract    bool
}

// GameGeometry mirrors struct retro_game_geometry.
type GameGeometry struct {
	BaseWidth   uint32
	BaseHeight  uint32
	MaxWidth    uint32
	MaxHeight   uint32
	AspectRatio float32
}

// SystemTiming mirrors struct retro_system_timing.
type SystemTiming struct {
	FPS        float64
	SampleRate float64
}

// SystemAVInfo mirrors struct retro_system_av_info.
type SystemAVInfo struct {
	Geometry GameGeometry
	Timing   SystemTiming
}

// Variable mirrors struct retro_variable.
type Variable struct {
	Key   *byte
	Value *byte
}

// Message mirrors struct retro_message.
type Message struct {
	Msg    *byte
	Frames uint32
}

// MessageExt mirrors struct retro_message_ext.
type MessageExt struct {
	Msg      *byte
	Duration uint32
	Priority uint32
	Level    int32
	Target   int32
	Type     int32
	Progress int8
}

// InputDescriptor mirrors struct retro_input_descriptor.
type InputDescriptor struct {
	Port        uint32
	Device      uint32
	Index       uint32
	ID          uint32
	Description *byte
}

// SubsystemMemoryInfo mirrors struct retro_subsystem_memory_info.
type SubsystemMemoryInfo struct {
	Extension *byte
	Type      uint32
}

// SubsystemROMInfo mirrors struct retro_subsystem_rom_info.
type SubsystemROMInfo struct {
	Desc            *byte
	ValidExtensions *byte
	NeedFullpath    bool
	BlockExtract    bool
	Required        bool
	Memory          *SubsystemMemoryInfo
	NumMemory       uint32
}

// SubsystemInfo mirrors struct retro_subsystem_info. Arrays of it are
// terminated by a zeroed entry.
type SubsystemInfo struct {
	Desc    *byte
	Ident   *byte
	ROMs    *SubsystemROMInfo
	NumROMs uint32
	ID      uint32
}

// ControllerDescription mirrors struct retro_controller_description.
type ControllerDescription struct {
	Desc *byte
	ID   uint32
}

// ControllerInfo mirrors struct retro_controller_info. Arrays of it are
// terminated by an entry whose Types is nil.
type ControllerInfo struct {
	Types    *ControllerDescription
	NumTypes uint32
}

// SystemContentInfoOverride mirrors struct retro_system_content_info_override.
// Arrays of it are terminated by an entry whose Extensions is nil.
type SystemContentInfoOverride struct {
	Extensions     *byte
	NeedFullpath   bool
	PersistentData bool
}

// FrameTimeCallback mirrors struct retro_frame_time_callback.
type FrameTimeCallback struct {
	Callback  uintptr
	Reference int64
}

// AudioCallback mirrors struct retro_audio_callback.
type AudioCallback struct {
	Callback uintptr
	SetState uintptr
}

// AudioBufferStatusCallback mirrors struct retro_audio_buffer_status_callback.
type AudioBufferStatusCallback struct {
	Callback uintptr
}

// KeyboardCallback mirrors struct retro_keyboard_callback.
type KeyboardCallback struct {
	Callback uintptr
}

// LogCallback mirrors struct retro_log_callback.
type LogCallback struct {
	Log uintptr
}

// PerfCallback mirrors struct retro_perf_callback.
type PerfCallback struct {
	GetTimeUsec    uintptr
	GetCPUFeatures uintptr
	GetPerfCounter uintptr
	PerfRegister   uintptr
	PerfStart      uintptr
	PerfStop       uintptr
	PerfLog        uintptr
}

// PerfCounter mirrors struct retro_perf_counter.
type PerfCounter struct {
	Ident      *byte
	Start      uint64
	Total      uint64
	CallCnt    uint64
	Registered bool
}

// RumbleInterface mirrors struct retro_rumble_interface.
type RumbleInterface struct {
	SetRumbleState uintptr
}

// SensorInterface mirrors struct retro_sensor_interface.
type SensorInterface struct {
	SetSensorState uintptr
	GetSensorInput uintptr
}

// LocationCallback mirrors struct retro_location_callback. The host fills the
// first four entries; the core owns Initialized and Deinitialized.
type LocationCallback struct {
	Start         uintptr
	Stop          uintptr
	GetPosition   uintptr
	SetInterval   uintptr
	Initialized   uintptr
	Deinitialized uintptr
}

// LEDInterface mirrors struct retro_led_interface.
type LEDInterface struct {
	SetLEDState uintptr
}

// MIDIInterface mirrors struct retro_midi_interface.
type MIDIInterface struct {
	InputEnabled  uintptr
	OutputEnabled uintptr
	Read          uintptr
	Write         uintptr
	Flush         uintptr
}

// VFSInterfaceInfo mirrors struct retro_vfs_interface_info.
type VFSInterfaceInfo struct {
	RequiredInterfaceVersion uint32
	Iface                    unsafe.Pointer
}

// VFSInterface mirrors struct retro_vfs_interface up to version 3.
type VFSInterface struct {
	GetPath       uintptr
	Open          uintptr
	Close         uintptr
	Size          uintptr
	Tell          uintptr
	Seek          uintptr
	Read          uintptr
	Write         uintptr
	Flush         uintptr
	Remove        uintptr
	Rename        uintptr
	Truncate      uintptr
	Stat          uintptr
	Mkdir         uintptr
	Opendir       uintptr
	Readdir       uintptr
	DirentGetName uintptr
	DirentIsDir   uintptr
	Closedir      uintptr
}

// MicrophoneParams mirrors struct retro_microphone_params.
type MicrophoneParams struct {
	Rate uint32
}

// MicrophoneInterface mirrors struct retro_microphone_interface.
type MicrophoneInterface struct {
	InterfaceVersion uint32
	OpenMic          uintptr
	CloseMic         uintptr
	GetParams        uintptr
	SetMicState      uintptr
	GetMicState      uintptr
	ReadMic          uintptr
}

// DevicePower mirrors struct retro_device_power.
type DevicePower struct {
	State   int32
	Seconds int32
	Percent int8
}

// ThrottleState mirrors struct retro_throttle_state.
type ThrottleState struct {
	Mode uint32
	Rate float32
}

// FastForwardingOverride mirrors struct retro_fastforwarding_override.
type FastForwardingOverride struct {
	Ratio         float32
	FastForward   bool
	Notification  bool
	InhibitToggle bool
}

// Framebuffer mirrors struct retro_framebuffer.
type Framebuffer struct {
	Data        unsafe.Pointer
	Width       uint32
	Height      uint32
	Pitch       uintptr
	Format      int32
	AccessFlags uint32
	MemoryFlags uint32
}

// CoreOptionValue mirrors struct retro_core_option_value.
type CoreOptionValue struct {
	Value *byte
	Label *byte
}

// CoreOptionDefinition mirrors struct retro_core_option_definition.
type CoreOptionDefinition struct {
	Key          *byte
	Desc         *byte
	Info         *byte
	Values       [NumCoreOptionValuesMax]CoreOptionValue
	DefaultValue *byte
}

// CoreOptionsIntl mirrors struct retro_core_options_intl.
type CoreOptionsIntl struct {
	US    *CoreOptionDefinition
	Local *CoreOptionDefinition
}

// CoreOptionV2Category mirrors struct retro_core_option_v2_category.
type CoreOptionV2Category struct {
	Key  *byte
	Desc *byte
	Info *byte
}

// CoreOptionV2Definition mirrors struct retro_core_option_v2_definition.
type CoreOptionV2Definition struct {
	Key             *byte
	Desc            *byte
	DescCategorized *byte
	Info            *byte
	InfoCategorized *byte
	CategoryKey     *byte
	Values          [NumCoreOptionValuesMax]CoreOptionValue
	DefaultValue    *byte
}

// CoreOptionsV2 mirrors struct retro_core_options_v2.
type CoreOptionsV2 struct {
	Categories  *CoreOptionV2Category
	Definitions *CoreOptionV2Definition
}

// CoreOptionsV2Intl mirrors struct retro_core_options_v2_intl.
type CoreOptionsV2Intl struct {
	US    *CoreOptionsV2
	Local *CoreOptionsV2
}

// CoreOptionDisplay mirrors struct retro_core_option_display.
type CoreOptionDisplay struct {
	Key     *byte
	Visible bool
}

// CoreOptionsUpdateDisplayCallback mirrors
// struct retro_core_options_update_display_callback.
type CoreOptionsUpdateDisplayCallback struct {
	Callback uintptr
}

// MemoryDescriptor mirrors struct retro_memory_descriptor.
type MemoryDescriptor struct {
	Flags      uint64
	Ptr        unsafe.Pointer
	Offset     uintptr
	Start      uintptr
	Select     uintptr
	Disconnect uintptr
	Len        uintptr
	AddrSpace  *byte
}

// MemoryMap mirrors struct retro_memory_map.
type MemoryMap struct {
	Descriptors    *MemoryDescriptor
	NumDescriptors uint32
}

// GetProcAddressInterface mirrors struct retro_get_proc_address_interface.
type GetProcAddressInterface struct {
	GetProcAddress uintptr
}

// DiskControlCallback mirrors struct retro_disk_control_callback.
type DiskControlCallback struct {
	SetEjectState     uintptr
	GetEjectState     uintptr
	GetImageIndex     uintptr
	SetImageIndex     uintptr
	GetNumImages      uintptr
	ReplaceImageIndex uintptr
	AddImageIndex     uintptr
}

// DiskControlExtCallback mirrors struct retro_disk_control_ext_callback.
type DiskControlExtCallback struct {
	DiskControlCallback
	SetInitialImage uintptr
	GetImagePath    uintptr
	GetImageLabel   uintptr
}

// HWRenderCallback mirrors struct retro_hw_render_callback.
type HWRenderCallback struct {
	ContextType           int32
	ContextReset          uintptr
	GetCurrentFramebuffer uintptr
	GetProcAddress        uintptr
	Depth                 bool
	Stencil               bool
	BottomLeftOrigin      bool
	VersionMajor          uint32
	VersionMinor          uint32
	CacheContext          bool
	ContextDestroy        uintptr
	DebugContext          bool
}

// PixelFormat mirrors enum retro_pixel_format.
type PixelFormat int32

const (
	PixelFormat0RGB1555 PixelFormat = 0
	PixelFormatXRGB8888 PixelFormat = 1
	PixelFormatRGB565   PixelFormat = 2
)

// Valid reports whether f is one of the defined pixel formats.
func (f PixelFormat) Valid() bool {
	return f >= PixelFormat0RGB1555 && f <= PixelFormatRGB565
}

// BytesPerPixel returns the storage size of one pixel in f.
func (f PixelFormat) BytesPerPixel() int {
	if f == PixelFormatXRGB8888 {
		return 4
	}
	return 2
}

// Language mirrors enum retro_language.
type Language int32

const (
	LanguageEnglish Language = iota
	LanguageJapanese
	LanguageFrench
	LanguageSpanish
	LanguageGerman
	LanguageItalian
	LanguageDutch
	LanguagePortugueseBrazil
	LanguagePortuguesePortugal
	LanguageRussian
	LanguageKorean
	LanguageChineseTraditional
	LanguageChineseSimplified
	LanguageEsperanto
	LanguagePolish
	LanguageVietnamese
	LanguageArabic
	LanguageGreek
	LanguageTurkish
	LanguageSlovak
	LanguagePersian
	LanguageHebrew
	LanguageAsturian
	LanguageFinnish
	LanguageIndonesian
	LanguageSwedish
	LanguageUkrainian
	LanguageCzech
	LanguageCatalanValencia
	LanguageCatalan
	LanguageBritishEnglish
	LanguageHungarian
	LanguageBelarusian
	LanguageGalician
	LanguageNorwegian
	LanguageLast
)

// LogLevel mirrors enum retro_log_level.
type LogLevel int32

const (
	LogDebug LogLevel = 0
	LogInfo  LogLevel = 1
	LogWarn  LogLevel = 2
	LogError LogLevel = 3
)

// Input device classes.
const (
	DeviceNone     uint32 = 0
	DeviceJoypad   uint32 = 1
	DeviceMouse    uint32 = 2
	DeviceKeyboard uint32 = 3
	DeviceLightgun uint32 = 4
	DeviceAnalog   uint32 = 5
	DevicePointer  uint32 = 6

	DeviceTypeShift = 8
	DeviceMask      = (1 << DeviceTypeShift) - 1

	// DeviceIDJoypadMask requests the full joypad button bitmask.
	DeviceIDJoypadMask uint32 = 256
)

// DeviceBase strips the subclass bits of a device id.
func DeviceBase(device uint32) uint32 { return device & DeviceMask }

// Memory region ids for retro_get_memory_data.
const (
	MemorySaveRAM   uint32 = 0
	MemoryRTC       uint32 = 1
	MemorySystemRAM uint32 = 2
	MemoryVideoRAM  uint32 = 3
)

// HWFrameBufferValid is RETRO_HW_FRAME_BUFFER_VALID, the data pointer a
// hardware rendered core passes to retro_video_refresh_t.
const HWFrameBufferValid = ^uintptr(0)

// Region ids returned by retro_get_region.
const (
	RegionNTSC uint32 = 0
	RegionPAL  uint32 = 1
)

// SavestateContext mirrors enum retro_savestate_context.
type SavestateContext int32

const (
	SavestateContextUnknown SavestateContext = iota
	SavestateContextNormal
	SavestateContextRunaheadSameInstance
	SavestateContextRunaheadSameBinary
	SavestateContextRollbackNetplay
)

// Throttle modes for retro_throttle_state.
const (
	ThrottleNone          uint32 = 0
	ThrottleFrameStepping uint32 = 1
	ThrottleFastForward   uint32 = 2
	ThrottleSlowMotion    uint32 = 3
	ThrottleRewinding     uint32 = 4
	ThrottleVSync         uint32 = 5
	ThrottleUnblocked     uint32 = 6
)

// PowerState mirrors enum retro_power_state.
type PowerState int32

const (
	PowerStateUnknown PowerState = iota
	PowerStateDischarging
	PowerStateCharging
	PowerStateCharged
	PowerStatePluggedIn
)

// PowerNoEstimate is reported in DevicePower.Seconds when unknown.
const PowerNoEstimate int32 = -2147483648

// Message targets and types for retro_message_ext.
const (
	MessageTargetAll int32 = 0
	MessageTargetOSD int32 = 1
	MessageTargetLog int32 = 2

	MessageTypeNotification    int32 = 0
	MessageTypeNotificationAlt int32 = 1
	MessageTypeStatus          int32 = 2
	MessageTypeProgress        int32 = 3
)

// Rumble effects and sensor actions.
const (
	RumbleStrong uint32 = 0
	RumbleWeak   uint32 = 1

	SensorAccelerometerEnable  uint32 = 0
	SensorAccelerometerDisable uint32 = 1
	SensorGyroscopeEnable      uint32 = 2
	SensorGyroscopeDisable     uint32 = 3
	SensorIlluminanceEnable    uint32 = 4
	SensorIlluminanceDisable   uint32 = 5

	SensorAccelerometerX uint32 = 0
	SensorAccelerometerY uint32 = 1
	SensorAccelerometerZ uint32 = 2
	SensorGyroscopeX     uint32 = 3
	SensorGyroscopeY     uint32 = 4
	SensorGyroscopeZ     uint32 = 5
	SensorIlluminance    uint32 = 6
)

// AV enable bits reported by GET_AUDIO_VIDEO_ENABLE.
const (
	AVEnableVideo            int32 = 1 << 0
	AVEnableAudio            int32 = 1 << 1
	AVEnableFastSavestates   int32 = 1 << 2
	AVEnableHardDisableAudio int32 = 1 << 3
)

// HWContextType mirrors enum retro_hw_context_type.
type HWContextType int32

const (
	HWContextNone HWContextType = iota
	HWContextOpenGL
	HWContextOpenGLES2
	HWContextOpenGLCore
	HWContextOpenGLES3
	HWContextOpenGLESVersion
	HWContextVulkan
	HWContextD3D11
	HWContextD3D10
	HWContextD3D12
	HWContextD3D9
)

// Serialization quirk bits for SET_SERIALIZATION_QUIRKS.
const (
	QuirkIncomplete        uint64 = 1 << 0
	QuirkMustInitialize    uint64 = 1 << 1
	QuirkCoreVariableSize  uint64 = 1 << 2
	QuirkFrontVariableSize uint64 = 1 << 3
	QuirkSingleSession     uint64 = 1 << 4
	QuirkEndianDependent   uint64 = 1 << 5
	QuirkPlatformDependent uint64 = 1 << 6
)

// CPU feature bits for retro_get_cpu_features_t.
const (
	SIMDSSE    uint64 = 1 << 0
	SIMDSSE2   uint64 = 1 << 1
	SIMDVMX    uint64 = 1 << 2
	SIMDVMX128 uint64 = 1 << 3
	SIMDAVX    uint64 = 1 << 4
	SIMDNEON   uint64 = 1 << 5
	SIMDSSE3   uint64 = 1 << 6
	SIMDSSSE3  uint64 = 1 << 7
	SIMDMMX    uint64 = 1 << 8
	SIMDMMXEXT uint64 = 1 << 9
	SIMDSSE4   uint64 = 1 << 10
	SIMDSSE42  uint64 = 1 << 11
	SIMDAVX2   uint64 = 1 << 12
	SIMDVFPU   uint64 = 1 << 13
	SIMDPS     uint64 = 1 << 14
	SIMDAES    uint64 = 1 << 15
	SIMDVFPV3  uint64 = 1 << 16
	SIMDVFPV4  uint64 = 1 << 17
	SIMDPOPCNT uint64 = 1 << 18
	SIMDMOVBE  uint64 = 1 << 19
	SIMDCMOV   uint64 = 1 << 20
	SIMDASIMD  uint64 = 1 << 21
)

// VFS access flags, seek origins and stat bits.
const (
	VFSFileAccessRead           uint32 = 1 << 0
	VFSFileAccessWrite          uint32 = 1 << 1
	VFSFileAccessReadWrite      uint32 = VFSFileAccessRead | VFSFileAccessWrite
	VFSFileAccessUpdateExisting uint32 = 1 << 2

	VFSSeekPositionStart   int32 = 0
	VFSSeekPositionCurrent int32 = 1
	VFSSeekPositionEnd     int32 = 2

	VFSStatIsValid            int32 = 1 << 0
	VFSStatIsDirectory        int32 = 1 << 1
	VFSStatIsCharacterSpecial int32 = 1 << 2
)

// Interface versions the host implements.
const (
	VFSInterfaceVersion        = 3
	MicrophoneInterfaceVersion = 1
	CoreOptionsVersion         = 2
	MessageInterfaceVersion    = 1
	DiskControlVersion         = 1
)
