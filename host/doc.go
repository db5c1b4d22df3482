// Package host runs one loaded libretro core.
//
// A Session owns everything a core sees during its lifetime: the composed
// capability providers, the environment dispatcher, the content driver with
// its staging buffers, and the arena holding memory handed to the core. It
// drives the core through init, content loading, frame execution and
// teardown, and implements the six callbacks the core invokes.
package host
