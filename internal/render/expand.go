package render

import "sync"

type expandKey struct {
	recordID int64
	column   string
}

type expandEntry struct {
	fingerprint string
	expanded    bool
}

// ExpandState tracks per-cell expansion of truncated text. A cell collapses
// again as soon as its underlying value changes.
type ExpandState struct {
	mu      sync.Mutex
	entries map[expandKey]expandEntry
}

// NewExpandState returns an empty state where every cell is collapsed.
func NewExpandState() *ExpandState {
	return &ExpandState{entries: make(map[expandKey]expandEntry)}
}

// Toggle flips the cell and returns its new state.
func (s *ExpandState) Toggle(recordID int64, column, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := expandKey{recordID: recordID, column: column}
	entry, ok := s.entries[key]
	if !ok || entry.fingerprint != value {
		entry = expandEntry{fingerprint: value}
	}
	entry.expanded = !entry.expanded
	s.entries[key] = entry
	return entry.expanded
}

// Expanded reports whether the cell is expanded for the current value.
func (s *ExpandState) Expanded(recordID int64, column, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := expandKey{recordID: recordID, column: column}
	entry, ok := s.entries[key]
	if !ok {
		return false
	}
	if entry.fingerprint != value {
		delete(s.entries, key)
		return false
	}
	return entry.expanded
}

// Reset collapses every cell.
func (s *ExpandState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
}
