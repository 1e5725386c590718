package service

import (
	"slices"
)

// Selection tracks the ids of employees picked for bulk actions.
// Not safe for concurrent use; callers hold the session lock.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle adds id when absent and removes it otherwise. Reports whether id is selected afterwards.
func (s *Selection) Toggle(id string) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// ToggleAll selects every visible id, or clears the selection when all of them
// are already selected.
func (s *Selection) ToggleAll(visibleIDs []string) {
	if len(visibleIDs) > 0 && len(s.ids) == len(visibleIDs) && s.hasAll(visibleIDs) {
		s.Clear()
		return
	}
	s.ids = make(map[string]struct{}, len(visibleIDs))
	for _, id := range visibleIDs {
		s.ids[id] = struct{}{}
	}
}

// Retain drops ids that are not in visibleIDs.
func (s *Selection) Retain(visibleIDs []string) {
	keep := make(map[string]struct{}, len(visibleIDs))
	for _, id := range visibleIDs {
		keep[id] = struct{}{}
	}
	for id := range s.ids {
		if _, ok := keep[id]; !ok {
			delete(s.ids, id)
		}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in sorted order.
func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Selection) hasAll(ids []string) bool {
	for _, id := range ids {
		if _, ok := s.ids[id]; !ok {
			return false
		}
	}
	return true
}
