package core

import "slices"

// IDSet is an unordered set of asset IDs.
type IDSet map[AssetID]struct{}

// NewIDSet builds a set from the given IDs.
func NewIDSet(ids ...AssetID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts ids into the set.
func (s IDSet) Add(ids ...AssetID) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// Contains reports whether id is a member.
func (s IDSet) Contains(id AssetID) bool {
	_, ok := s[id]
	return ok
}

// Clone returns an independent copy.
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Union returns a new set holding members of either set.
func (s IDSet) Union(other IDSet) IDSet {
	out := make(IDSet, len(s)+len(other))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range other {
		out[id] = struct{}{}
	}
	return out
}

// Intersect returns a new set holding members of both sets.
func (s IDSet) Intersect(other IDSet) IDSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(IDSet, len(small))
	for id := range small {
		if _, ok := large[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// Sorted returns the members in lexical order.
func (s IDSet) Sorted() []AssetID {
	out := make([]AssetID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
