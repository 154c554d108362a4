package session

import (
	"os"
	"strings"
)

// flagMarker is the only content that counts as an authenticated flag.
// Any other content, or a missing file, reads as unauthenticated.
const flagMarker = "true"

// FlagStore persists the single authenticated-session marker across
// process restarts. It is the one piece of panel state that outlives
// the process: a file whose content is exactly "true".
type FlagStore struct {
	path string
}

// NewFlagStore creates a flag store backed by the given file path.
func NewFlagStore(path string) *FlagStore {
	return &FlagStore{path: path}
}

// Set writes the authenticated marker.
func (f *FlagStore) Set() error {
	return os.WriteFile(f.path, []byte(flagMarker), 0o600)
}

// Clear removes the marker. Clearing an absent marker is a no-op.
func (f *FlagStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsSet reports whether the authenticated marker is present and intact.
func (f *FlagStore) IsSet() bool {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == flagMarker
}
