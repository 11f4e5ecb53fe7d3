package search

import "github.com/poiesic/glimpse/core"

// Candidates is the running result of a search. It is either unconstrained,
// meaning every asset in the library is still possible, or constrained to a
// set of IDs. A constrained empty set stays empty under every intersection.
type Candidates struct {
	constrained bool
	ids         core.IDSet
}

// Unconstrained returns candidates that admit every asset.
func Unconstrained() Candidates {
	return Candidates{}
}

// Constrained returns candidates limited to ids.
func Constrained(ids core.IDSet) Candidates {
	if ids == nil {
		ids = core.NewIDSet()
	}
	return Candidates{constrained: true, ids: ids}
}

// IsConstrained reports whether any stage has restricted the candidates.
func (c Candidates) IsConstrained() bool {
	return c.constrained
}

// IsEmpty reports whether the candidates are constrained to nothing.
func (c Candidates) IsEmpty() bool {
	return c.constrained && len(c.ids) == 0
}

// Len returns the number of candidates, or -1 when unconstrained.
func (c Candidates) Len() int {
	if !c.constrained {
		return -1
	}
	return len(c.ids)
}

// IDs returns the constrained set, or nil when unconstrained.
func (c Candidates) IDs() core.IDSet {
	return c.ids
}

// Intersect narrows the candidates to ids. Intersecting an unconstrained
// value yields exactly ids.
func (c Candidates) Intersect(ids core.IDSet) Candidates {
	if !c.constrained {
		return Constrained(ids.Clone())
	}
	return Constrained(c.ids.Intersect(ids))
}
