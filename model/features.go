package model

import (
	"slices"
	"strings"
)

// Features is a sorted set of feature strings
type Features []string

// Contains reports whether f is part of the set
func (fs Features) Contains(f string) bool {
	_, ok := slices.BinarySearch(fs, f)
	return ok
}

func (fs Features) String() string {
	return strings.Join(fs, " ")
}

// FeatureSet collects features for one mention/candidate pair
type FeatureSet struct {
	set map[string]struct{}
}

// NewFeatureSet creates an empty feature set
func NewFeatureSet() *FeatureSet {
	return &FeatureSet{set: make(map[string]struct{})}
}

// Add adds features, duplicates collapse
func (s *FeatureSet) Add(features ...string) {
	for _, f := range features {
		s.set[f] = struct{}{}
	}
}

// AddPrefixed adds every feature with prefix prepended
func (s *FeatureSet) AddPrefixed(prefix string, features ...string) {
	for _, f := range features {
		s.set[prefix+f] = struct{}{}
	}
}

// Len returns the number of distinct features
func (s *FeatureSet) Len() int {
	return len(s.set)
}

// Features returns the sorted features
func (s *FeatureSet) Features() Features {
	out := make(Features, 0, len(s.set))
	for f := range s.set {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}
