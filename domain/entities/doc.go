// Package entities holds the host's Go-native view of the data a core
// exchanges through the environment call: system and subsystem descriptors,
// content overrides and attributes, core options, AV info and messages.
// None of these types reference C memory; decoding lives in envcall.
package entities
