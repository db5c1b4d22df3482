package entities

import (
	"slices"
	"strings"
)

// SystemInfo describes a loaded core as reported by retro_get_system_info.
type SystemInfo struct {
	LibraryName     string   `json:"library_name" validate:"required"`
	LibraryVersion  string   `json:"library_version"`
	ValidExtensions []string `json:"valid_extensions"`
	NeedFullpath    bool     `json:"need_fullpath"`
	BlockExtract    bool     `json:"block_extract"`
}

// Validate checks the descriptor's required fields.
func (s *SystemInfo) Validate() error {
	return ValidateStruct(s).Err()
}

// HasExtension reports whether ext is in the valid extension list.
// Comparison is case-insensitive and ignores a leading dot.
func (s *SystemInfo) HasExtension(ext string) bool {
	if s == nil {
		return false
	}
	return containsExtension(s.ValidExtensions, ext)
}

func containsExtension(list []string, ext string) bool {
	ext = NormalizeExtension(ext)
	return slices.ContainsFunc(list, func(e string) bool {
		return NormalizeExtension(e) == ext
	})
}

// NormalizeExtension lower-cases ext and strips surrounding space and a
// leading dot.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// SubsystemMemory describes one auxiliary memory region of a subsystem rom.
type SubsystemMemory struct {
	Extension string `json:"extension"`
	Type      uint32 `json:"type"`
}

// SubsystemROM describes one content slot of a subsystem.
type SubsystemROM struct {
	Desc            string            `json:"desc"`
	ValidExtensions []string          `json:"valid_extensions"`
	NeedFullpath    bool              `json:"need_fullpath"`
	BlockExtract    bool              `json:"block_extract"`
	Required        bool              `json:"required"`
	Memory          []SubsystemMemory `json:"memory,omitempty"`
}

// HasExtension reports whether ext is valid for this slot.
func (r *SubsystemROM) HasExtension(ext string) bool {
	if r == nil {
		return false
	}
	return containsExtension(r.ValidExtensions, ext)
}

// SubsystemInfo describes one named multi-content load mode of a core.
type SubsystemInfo struct {
	Desc  string         `json:"desc"`
	Ident string         `json:"ident" validate:"required"`
	ID    uint32         `json:"id"`
	ROMs  []SubsystemROM `json:"roms" validate:"min=1"`
}

// Subsystems is the ordered list set through SET_SUBSYSTEM_INFO.
type Subsystems []SubsystemInfo

// ByID returns the subsystem with the given id.
func (s Subsystems) ByID(id uint32) (*SubsystemInfo, bool) {
	for i := range s {
		if s[i].ID == id {
			return &s[i], true
		}
	}
	return nil, false
}

// ByIdent returns the subsystem with the given identifier.
func (s Subsystems) ByIdent(ident string) (*SubsystemInfo, bool) {
	for i := range s {
		if s[i].Ident == ident {
			return &s[i], true
		}
	}
	return nil, false
}

// HasExtension reports whether any rom of any subsystem accepts ext.
func (s Subsystems) HasExtension(ext string) bool {
	for i := range s {
		for j := range s[i].ROMs {
			if s[i].ROMs[j].HasExtension(ext) {
				return true
			}
		}
	}
	return false
}

// ContentOverride changes the attribute defaults for a set of extensions,
// as registered through SET_CONTENT_INFO_OVERRIDE.
type ContentOverride struct {
	Extensions     []string `json:"extensions"`
	NeedFullpath   bool     `json:"need_fullpath"`
	PersistentData bool     `json:"persistent_data"`
}

// ContentOverrides is an ordered override list.
type ContentOverrides []ContentOverride

// Lookup returns the override for ext. When the same extension appears in
// more than one entry, the first entry wins and later ones are ignored.
func (o ContentOverrides) Lookup(ext string) (ContentOverride, bool) {
	for _, override := range o {
		if containsExtension(override.Extensions, ext) {
			return override, true
		}
	}
	return ContentOverride{}, false
}

// ContentAttributes are the four per-item booleans that decide how content
// is staged. Only the content resolver produces them.
type ContentAttributes struct {
	NeedFullpath   bool `json:"need_fullpath"`
	PersistentData bool `json:"persistent_data"`
	BlockExtract   bool `json:"block_extract"`
	Required       bool `json:"required"`
}
