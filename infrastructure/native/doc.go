// Package native binds libretro cores built as shared objects without cgo.
//
// Library loads a core with purego, resolves its retro_* entry points and
// implements ports.Core over them. The six callbacks a core invokes, and the
// host interface tables the environment dispatcher hands out, are C function
// pointers created once per process. They forward to whichever Frontend and
// Providers are currently attached, so one core session is active at a time.
package native
