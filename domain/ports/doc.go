// Package ports defines the capability provider interfaces a session is
// composed from, and the Core boundary it drives.
//
// Each provider covers one narrow domain. Only audio, video and input are
// mandatory; every other provider may be absent, and optional features of a
// provider are expressed as small sub-interfaces (for example
// AudioLatencySetter) that the dispatcher resolves once, when its command
// table is built.
package ports
