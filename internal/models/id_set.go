package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// IDSet is the canonical container for completed lesson IDs and earned achievement IDs.
//
// It always serializes to a sorted JSON array. Decoding is lenient and accepts
// an array of strings, an object whose keys are IDs (members are the keys with a truthy value),
// or null, so every snapshot read from storage is normalized into the same shape.
type IDSet map[string]struct{}

// NewIDSet creates a set holding the given IDs
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts the ID and reports whether it was absent before
func (s IDSet) Add(id string) bool {
	if id == "" {
		return false
	}
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Has reports whether the ID is in the set
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of IDs
func (s IDSet) Len() int {
	return len(s)
}

// Sorted returns the IDs in lexical order
func (s IDSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy of the set
func (s IDSet) Clone() IDSet {
	c := make(IDSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// MarshalJSON writes the set as a sorted array
func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON normalizes any of the accepted shapes into the set
func (s *IDSet) UnmarshalJSON(data []byte) error {
	set := IDSet{}
	trimmed := bytes.TrimSpace(data)

	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
	case trimmed[0] == '[':
		var ids []string
		if err := json.Unmarshal(trimmed, &ids); err != nil {
			return fmt.Errorf("failed to decode id array: %w", err)
		}
		for _, id := range ids {
			set.Add(id)
		}
	case trimmed[0] == '{':
		var flags map[string]any
		if err := json.Unmarshal(trimmed, &flags); err != nil {
			return fmt.Errorf("failed to decode id object: %w", err)
		}
		for id, v := range flags {
			if truthy(v) {
				set.Add(id)
			}
		}
	default:
		return fmt.Errorf("unsupported id set representation: %s", string(trimmed))
	}

	*s = set
	return nil
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != "" && val != "false" && val != "0"
	default:
		return true
	}
}
