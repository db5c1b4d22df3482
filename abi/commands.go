package abi

import (
	"fmt"
	"slices"
)

// EnvCmd identifies one environment call. Values are numerically identical to
// the RETRO_ENVIRONMENT_* constants of libretro.h.
type EnvCmd uint32

const (
	// Experimental marks commands whose payload shape may still change.
	Experimental EnvCmd = 0x10000
	// Private marks frontend-private commands.
	Private EnvCmd = 0x20000
)

const (
	EnvSetRotation                                   EnvCmd = 1
	EnvGetOverscan                                   EnvCmd = 2
	EnvGetCanDupe                                    EnvCmd = 3
	EnvSetMessage                                    EnvCmd = 6
	EnvShutdown                                      EnvCmd = 7
	EnvSetPerformanceLevel                           EnvCmd = 8
	EnvGetSystemDirectory                            EnvCmd = 9
	EnvSetPixelFormat                                EnvCmd = 10
	EnvSetInputDescriptors                           EnvCmd = 11
	EnvSetKeyboardCallback                           EnvCmd = 12
	EnvSetDiskControlInterface                       EnvCmd = 13
	EnvSetHWRender                                   EnvCmd = 14
	EnvGetVariable                                   EnvCmd = 15
	EnvSetVariables                                  EnvCmd = 16
	EnvGetVariableUpdate                             EnvCmd = 17
	EnvSetSupportNoGame                              EnvCmd = 18
	EnvGetLibretroPath                               EnvCmd = 19
	EnvSetFrameTimeCallback                          EnvCmd = 21
	EnvSetAudioCallback                              EnvCmd = 22
	EnvGetRumbleInterface                            EnvCmd = 23
	EnvGetInputDeviceCapabilities                    EnvCmd = 24
	EnvGetSensorInterface                            EnvCmd = 25 | Experimental
	EnvGetCameraInterface                            EnvCmd = 26 | Experimental
	EnvGetLogInterface                               EnvCmd = 27
	EnvGetPerfInterface                              EnvCmd = 28
	EnvGetLocationInterface                          EnvCmd = 29
	EnvGetCoreAssetsDirectory                        EnvCmd = 30
	EnvGetSaveDirectory                              EnvCmd = 31
	EnvSetSystemAVInfo                               EnvCmd = 32
	EnvSetProcAddressCallback                        EnvCmd = 33
	EnvSetSubsystemInfo                              EnvCmd = 34
	EnvSetControllerInfo                             EnvCmd = 35
	EnvSetMemoryMaps                                 EnvCmd = 36 | Experimental
	EnvSetGeometry                                   EnvCmd = 37
	EnvGetUsername                                   EnvCmd = 38
	EnvGetLanguage                                   EnvCmd = 39
	EnvGetCurrentSoftwareFramebuffer                 EnvCmd = 40 | Experimental
	EnvGetHWRenderInterface                          EnvCmd = 41 | Experimental
	EnvSetSupportAchievements                        EnvCmd = 42 | Experimental
	EnvSetHWRenderContextNegotiationInterface        EnvCmd = 43 | Experimental
	EnvSetSerializationQuirks                        EnvCmd = 44
	EnvSetHWSharedContext                            EnvCmd = 44 | Experimental
	EnvGetVFSInterface                               EnvCmd = 45 | Experimental
	EnvGetLEDInterface                               EnvCmd = 46 | Experimental
	EnvGetAudioVideoEnable                           EnvCmd = 47 | Experimental
	EnvGetMIDIInterface                              EnvCmd = 48 | Experimental
	EnvGetFastForwarding                             EnvCmd = 49 | Experimental
	EnvGetTargetRefreshRate                          EnvCmd = 50 | Experimental
	EnvGetInputBitmasks                              EnvCmd = 51 | Experimental
	EnvGetCoreOptionsVersion                         EnvCmd = 52
	EnvSetCoreOptions                                EnvCmd = 53
	EnvSetCoreOptionsIntl                            EnvCmd = 54
	EnvSetCoreOptionsDisplay                         EnvCmd = 55
	EnvGetPreferredHWRender                          EnvCmd = 56
	EnvGetDiskControlInterfaceVersion                EnvCmd = 57
	EnvSetDiskControlExtInterface                    EnvCmd = 58
	EnvGetMessageInterfaceVersion                    EnvCmd = 59
	EnvSetMessageExt                                 EnvCmd = 60
	EnvGetInputMaxUsers                              EnvCmd = 61
	EnvSetAudioBufferStatusCallback                  EnvCmd = 62
	EnvSetMinimumAudioLatency                        EnvCmd = 63
	EnvSetFastForwardingOverride                     EnvCmd = 64
	EnvSetContentInfoOverride                        EnvCmd = 65
	EnvGetGameInfoExt                                EnvCmd = 66
	EnvSetCoreOptionsV2                              EnvCmd = 67
	EnvSetCoreOptionsV2Intl                          EnvCmd = 68
	EnvSetCoreOptionsUpdateDisplayCallback           EnvCmd = 69
	EnvSetVariable                                   EnvCmd = 70
	EnvGetThrottleState                              EnvCmd = 71 | Experimental
	EnvGetSavestateContext                           EnvCmd = 72 | Experimental
	EnvGetHWRenderContextNegotiationInterfaceSupport EnvCmd = 73 | Experimental
	EnvGetJITCapable                                 EnvCmd = 74
	EnvGetMicrophoneInterface                        EnvCmd = 75 | Experimental
	EnvGetDevicePower                                EnvCmd = 77 | Experimental
	EnvSetNetpacketInterface                         EnvCmd = 78
	EnvGetPlaylistDirectory                          EnvCmd = 79
	EnvGetFileBrowserStartDirectory                  EnvCmd = 80
	EnvGetTargetSampleRate                           EnvCmd = 81 | Experimental

	EnvGetClearAllThreadWaitsCallback EnvCmd = 3 | Private
	EnvPollTypeOverride               EnvCmd = 4 | Private
)

var envNames = map[EnvCmd]string{
	EnvSetRotation:                                   "SET_ROTATION",
	EnvGetOverscan:                                   "GET_OVERSCAN",
	EnvGetCanDupe:                                    "GET_CAN_DUPE",
	EnvSetMessage:                                    "SET_MESSAGE",
	EnvShutdown:                                      "SHUTDOWN",
	EnvSetPerformanceLevel:                           "SET_PERFORMANCE_LEVEL",
	EnvGetSystemDirectory:                            "GET_SYSTEM_DIRECTORY",
	EnvSetPixelFormat:                                "SET_PIXEL_FORMAT",
	EnvSetInputDescriptors:                           "SET_INPUT_DESCRIPTORS",
	EnvSetKeyboardCallback:                           "SET_KEYBOARD_CALLBACK",
	EnvSetDiskControlInterface:                       "SET_DISK_CONTROL_INTERFACE",
	EnvSetHWRender:                                   "SET_HW_RENDER",
	EnvGetVariable:                                   "GET_VARIABLE",
	EnvSetVariables:                                  "SET_VARIABLES",
	EnvGetVariableUpdate:                             "GET_VARIABLE_UPDATE",
	EnvSetSupportNoGame:                              "SET_SUPPORT_NO_GAME",
	EnvGetLibretroPath:                               "GET_LIBRETRO_PATH",
	EnvSetFrameTimeCallback:                          "SET_FRAME_TIME_CALLBACK",
	EnvSetAudioCallback:                              "SET_AUDIO_CALLBACK",
	EnvGetRumbleInterface:                            "GET_RUMBLE_INTERFACE",
	EnvGetInputDeviceCapabilities:                    "GET_INPUT_DEVICE_CAPABILITIES",
	EnvGetSensorInterface:                            "GET_SENSOR_INTERFACE",
	EnvGetCameraInterface:                            "GET_CAMERA_INTERFACE",
	EnvGetLogInterface:                               "GET_LOG_INTERFACE",
	EnvGetPerfInterface:                              "GET_PERF_INTERFACE",
	EnvGetLocationInterface:                          "GET_LOCATION_INTERFACE",
	EnvGetCoreAssetsDirectory:                        "GET_CORE_ASSETS_DIRECTORY",
	EnvGetSaveDirectory:                              "GET_SAVE_DIRECTORY",
	EnvSetSystemAVInfo:                               "SET_SYSTEM_AV_INFO",
	EnvSetProcAddressCallback:                        "SET_PROC_ADDRESS_CALLBACK",
	EnvSetSubsystemInfo:                              "SET_SUBSYSTEM_INFO",
	EnvSetControllerInfo:                             "SET_CONTROLLER_INFO",
	EnvSetMemoryMaps:                                 "SET_MEMORY_MAPS",
	EnvSetGeometry:                                   "SET_GEOMETRY",
	EnvGetUsername:                                   "GET_USERNAME",
	EnvGetLanguage:                                   "GET_LANGUAGE",
	EnvGetCurrentSoftwareFramebuffer:                 "GET_CURRENT_SOFTWARE_FRAMEBUFFER",
	EnvGetHWRenderInterface:                          "GET_HW_RENDER_INTERFACE",
	EnvSetSupportAchievements:                        "SET_SUPPORT_ACHIEVEMENTS",
	EnvSetHWRenderContextNegotiationInterface:        "SET_HW_RENDER_CONTEXT_NEGOTIATION_INTERFACE",
	EnvSetSerializationQuirks:                        "SET_SERIALIZATION_QUIRKS",
	EnvSetHWSharedContext:                            "SET_HW_SHARED_CONTEXT",
	EnvGetVFSInterface:                               "GET_VFS_INTERFACE",
	EnvGetLEDInterface:                               "GET_LED_INTERFACE",
	EnvGetAudioVideoEnable:                           "GET_AUDIO_VIDEO_ENABLE",
	EnvGetMIDIInterface:                              "GET_MIDI_INTERFACE",
	EnvGetFastForwarding:                             "GET_FASTFORWARDING",
	EnvGetTargetRefreshRate:                          "GET_TARGET_REFRESH_RATE",
	EnvGetInputBitmasks:                              "GET_INPUT_BITMASKS",
	EnvGetCoreOptionsVersion:                         "GET_CORE_OPTIONS_VERSION",
	EnvSetCoreOptions:                                "SET_CORE_OPTIONS",
	EnvSetCoreOptionsIntl:                            "SET_CORE_OPTIONS_INTL",
	EnvSetCoreOptionsDisplay:                         "SET_CORE_OPTIONS_DISPLAY",
	EnvGetPreferredHWRender:                          "GET_PREFERRED_HW_RENDER",
	EnvGetDiskControlInterfaceVersion:                "GET_DISK_CONTROL_INTERFACE_VERSION",
	EnvSetDiskControlExtInterface:                    "SET_DISK_CONTROL_EXT_INTERFACE",
	EnvGetMessageInterfaceVersion:                    "GET_MESSAGE_INTERFACE_VERSION",
	EnvSetMessageExt:                                 "SET_MESSAGE_EXT",
	EnvGetInputMaxUsers:                              "GET_INPUT_MAX_USERS",
	EnvSetAudioBufferStatusCallback:                  "SET_AUDIO_BUFFER_STATUS_CALLBACK",
	EnvSetMinimumAudioLatency:                        "SET_MINIMUM_AUDIO_LATENCY",
	EnvSetFastForwardingOverride:                     "SET_FASTFORWARDING_OVERRIDE",
	EnvSetContentInfoOverride:                        "SET_CONTENT_INFO_OVERRIDE",
	EnvGetGameInfoExt:                                "GET_GAME_INFO_EXT",
	EnvSetCoreOptionsV2:                              "SET_CORE_OPTIONS_V2",
	EnvSetCoreOptionsV2Intl:                          "SET_CORE_OPTIONS_V2_INTL",
	EnvSetCoreOptionsUpdateDisplayCallback:           "SET_CORE_OPTIONS_UPDATE_DISPLAY_CALLBACK",
	EnvSetVariable:                                   "SET_VARIABLE",
	EnvGetThrottleState:                              "GET_THROTTLE_STATE",
	EnvGetSavestateContext:                           "GET_SAVESTATE_CONTEXT",
	EnvGetHWRenderContextNegotiationInterfaceSupport: "GET_HW_RENDER_CONTEXT_NEGOTIATION_INTERFACE_SUPPORT",
	EnvGetJITCapable:                                 "GET_JIT_CAPABLE",
	EnvGetMicrophoneInterface:                        "GET_MICROPHONE_INTERFACE",
	EnvGetDevicePower:                                "GET_DEVICE_POWER",
	EnvSetNetpacketInterface:                         "SET_NETPACKET_INTERFACE",
	EnvGetPlaylistDirectory:                          "GET_PLAYLIST_DIRECTORY",
	EnvGetFileBrowserStartDirectory:                  "GET_FILE_BROWSER_START_DIRECTORY",
	EnvGetTargetSampleRate:                           "GET_TARGET_SAMPLE_RATE",
	EnvGetClearAllThreadWaitsCallback:                "GET_CLEAR_ALL_THREAD_WAITS_CB",
	EnvPollTypeOverride:                              "POLL_TYPE_OVERRIDE",
}

// Known reports whether cmd belongs to the closed command enumeration.
func Known(cmd EnvCmd) bool {
	_, ok := envNames[cmd]
	return ok
}

// Commands returns every known command in ascending numeric order.
func Commands() []EnvCmd {
	cmds := make([]EnvCmd, 0, len(envNames))
	for cmd := range envNames {
		cmds = append(cmds, cmd)
	}
	slices.Sort(cmds)
	return cmds
}

// IsExperimental reports whether the experimental flag bit is set.
func (c EnvCmd) IsExperimental() bool { return c&Experimental != 0 }

// IsPrivate reports whether the private flag bit is set.
func (c EnvCmd) IsPrivate() bool { return c&Private != 0 }

// Base strips the experimental and private flag bits.
func (c EnvCmd) Base() EnvCmd { return c &^ (Experimental | Private) }

func (c EnvCmd) String() string {
	if name, ok := envNames[c]; ok {
		return "RETRO_ENVIRONMENT_" + name
	}
	return fmt.Sprintf("RETRO_ENVIRONMENT_UNKNOWN(%d)", uint32(c))
}
