package host

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// StateFileVersion is the envelope version written by SaveStateFile.
const StateFileVersion = 1

// ErrStateMismatch is returned when a state file was written by a
// different core.
var ErrStateMismatch = errors.New("state file belongs to a different core")

// StateFile is the envelope around a serialized core state.
type StateFile struct {
	Version        int       `cbor:"1,keyasint"`
	LibraryName    string    `cbor:"2,keyasint"`
	LibraryVersion string    `cbor:"3,keyasint"`
	Session        uuid.UUID `cbor:"4,keyasint"`
	Frame          uint64    `cbor:"5,keyasint"`
	Created        time.Time `cbor:"6,keyasint"`
	Data           []byte    `cbor:"7,keyasint"`
}

var stateEncMode = func() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

// SaveStateFile serializes the core and writes the state to w.
func (s *Session) SaveStateFile(w io.Writer) error {
	data, err := s.SerializeState()
	if err != nil {
		return err
	}
	file := StateFile{
		Version:        StateFileVersion,
		LibraryName:    s.system.LibraryName,
		LibraryVersion: s.system.LibraryVersion,
		Session:        s.id,
		Frame:          s.frames,
		Created:        s.now().UTC(),
		Data:           data,
	}
	if err := stateEncMode.NewEncoder(w).Encode(file); err != nil {
		return fmt.Errorf("failed to encode state file: %w", err)
	}
	return nil
}

// ReadStateFile decodes a state file envelope without applying it.
func ReadStateFile(r io.Reader) (StateFile, error) {
	var file StateFile
	if err := cbor.NewDecoder(r).Decode(&file); err != nil {
		return StateFile{}, fmt.Errorf("failed to decode state file: %w", err)
	}
	if file.Version != StateFileVersion {
		return StateFile{}, fmt.Errorf("unsupported state file version %d", file.Version)
	}
	return file, nil
}

// LoadStateFile reads a state written by SaveStateFile and restores it.
// The state must come from a core with the same library name; a differing
// library version is logged and accepted.
func (s *Session) LoadStateFile(r io.Reader) error {
	file, err := ReadStateFile(r)
	if err != nil {
		return err
	}
	if file.LibraryName != s.system.LibraryName {
		return fmt.Errorf("%w: %q, session runs %q", ErrStateMismatch, file.LibraryName, s.system.LibraryName)
	}
	if file.LibraryVersion != s.system.LibraryVersion {
		s.logger.Warn("state file from another core version",
			"state_version", file.LibraryVersion, "core_version", s.system.LibraryVersion)
	}
	return s.RestoreState(file.Data)
}
