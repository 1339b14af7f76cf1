package models

import (
	"fmt"
	"slices"
)

// SyncState is a complete snapshot of attachments keyed by item key. It is
// used both for the freshly read catalog state and for the archived state of
// the last successful pass.
type SyncState map[string]Attachment

// NewSyncState indexes attachments by item key. It returns an error when two
// attachments share a key.
func NewSyncState(attachments ...Attachment) (SyncState, error) {
	state := make(SyncState, len(attachments))
	for _, a := range attachments {
		if _, dup := state[a.ItemKey]; dup {
			return nil, fmt.Errorf("duplicate item key %q", a.ItemKey)
		}
		state[a.ItemKey] = a
	}
	return state, nil
}

// Keys returns the item keys in ascending order.
func (s SyncState) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Attachments returns the attachments ordered by item key.
func (s SyncState) Attachments() []Attachment {
	out := make([]Attachment, 0, len(s))
	for _, k := range s.Keys() {
		out = append(out, s[k])
	}
	return out
}

// Has reports whether key is present.
func (s SyncState) Has(key string) bool {
	_, ok := s[key]
	return ok
}
