package imu

import (
	"maps"
	"slices"
)

// SampleSet maps timestamps to readings. Keys are unique and iterate in
// ascending order; inserting an existing timestamp replaces its reading.
type SampleSet struct {
	values map[float64]Vector3
	keys   []float64 // sorted lazily, nil when stale
}

// NewSampleSet creates an empty set
func NewSampleSet() *SampleSet {
	return &SampleSet{values: make(map[float64]Vector3)}
}

// Insert stores v under ts and reports whether an earlier reading was replaced
func (s *SampleSet) Insert(ts float64, v Vector3) (replaced bool) {
	_, replaced = s.values[ts]
	s.values[ts] = v
	if !replaced {
		s.keys = nil
	}
	return replaced
}

// Get returns the reading stored under ts
func (s *SampleSet) Get(ts float64) (Vector3, bool) {
	v, ok := s.values[ts]
	return v, ok
}

// Len returns the number of distinct timestamps
func (s *SampleSet) Len() int {
	return len(s.values)
}

// First returns the smallest timestamp
func (s *SampleSet) First() (float64, bool) {
	keys := s.sortedKeys()
	if len(keys) == 0 {
		return 0, false
	}
	return keys[0], true
}

// Keys returns a copy of the timestamps in ascending order
func (s *SampleSet) Keys() []float64 {
	return slices.Clone(s.sortedKeys())
}

// Values returns the readings in ascending timestamp order
func (s *SampleSet) Values() []Vector3 {
	keys := s.sortedKeys()
	values := make([]Vector3, len(keys))
	for i, k := range keys {
		values[i] = s.values[k]
	}
	return values
}

// SameKeys reports whether both sets hold exactly the same timestamps
func (s *SampleSet) SameKeys(other *SampleSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for k := range s.values {
		if _, ok := other.values[k]; !ok {
			return false
		}
	}
	return true
}

func (s *SampleSet) sortedKeys() []float64 {
	if s.keys == nil && len(s.values) > 0 {
		s.keys = slices.Sorted(maps.Keys(s.values))
	}
	return s.keys
}
