package drivers

import "path/filepath"

// Directories names the host directories a core may ask for. Empty entries
// are reported as not configured.
type Directories struct {
	System      string
	Save        string
	CoreAssets  string
	Playlist    string
	FileBrowser string
	Libretro    string
}

// StaticPaths answers the directory queries from fixed values.
type StaticPaths struct {
	dirs Directories
}

// NewStaticPaths creates a StaticPaths. Relative directories are made
// absolute; a missing save directory falls back to the system directory.
func NewStaticPaths(dirs Directories) *StaticPaths {
	for _, d := range []*string{&dirs.System, &dirs.Save, &dirs.CoreAssets, &dirs.Playlist, &dirs.FileBrowser, &dirs.Libretro} {
		if *d == "" {
			continue
		}
		if abs, err := filepath.Abs(*d); err == nil {
			*d = abs
		}
	}
	if dirs.Save == "" {
		dirs.Save = dirs.System
	}
	return &StaticPaths{dirs: dirs}
}

func (p *StaticPaths) SystemDir() string           { return p.dirs.System }
func (p *StaticPaths) SaveDir() string             { return p.dirs.Save }
func (p *StaticPaths) CoreAssetsDir() string       { return p.dirs.CoreAssets }
func (p *StaticPaths) PlaylistDir() string         { return p.dirs.Playlist }
func (p *StaticPaths) FileBrowserStartDir() string { return p.dirs.FileBrowser }
func (p *StaticPaths) LibretroPath() string        { return p.dirs.Libretro }
