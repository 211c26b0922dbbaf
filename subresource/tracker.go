// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package subresource

// Entry is a tracked range together with its current state.
type Entry[S comparable] struct {
	Range Range
	State S
}

// Change describes one piece of a Transition: Range moved from From to To.
type Change[S comparable] struct {
	Range Range
	From  S
	To    S
}

// Tracker records a state (an image layout or an access mask, for example)
// for every subresource of one image.
//
// States are stored as a set of disjoint ranges that together cover the whole
// image. A transition of part of the image cuts every overlapping range around
// the transitioned region, so each remaining piece keeps its previous state.
//
// Tracker is not safe for concurrent use.
type Tracker[S comparable] struct {
	whole   Range
	entries []Entry[S]
	scratch []Entry[S]
}

// NewTracker creates a tracker for the subresources in whole, all of which
// start in the initial state.
func NewTracker[S comparable](whole Range, initial S) *Tracker[S] {
	t := &Tracker[S]{whole: whole}
	if !whole.Empty() {
		t.entries = append(t.entries, Entry[S]{Range: whole, State: initial})
	}
	return t
}

// Whole returns the range covered by the tracker.
func (t *Tracker[S]) Whole() Range {
	return t.whole
}

// Transition moves the subresources in r to state to.
//
// The returned changes list, for every previously tracked piece inside r whose
// state differs from to, the piece and its previous state. These are exactly
// the regions that need a barrier. Pieces already in state to are not
// reported. Parts of r outside the tracked image are ignored.
func (t *Tracker[S]) Transition(r Range, to S) []Change[S] {
	r, ok := r.Intersect(t.whole)
	if !ok {
		return nil
	}

	var changes []Change[S]
	next := t.scratch[:0]
	for _, e := range t.entries {
		overlap, ok := e.Range.Intersect(r)
		if !ok {
			next = append(next, e)
			continue
		}
		if e.State != to {
			changes = append(changes, Change[S]{Range: overlap, From: e.State, To: to})
		}
		for _, p := range Cut(e.Range, r) {
			next = append(next, Entry[S]{Range: p, State: e.State})
		}
	}
	next = append(next, Entry[S]{Range: r, State: to})

	t.scratch = t.entries[:0]
	t.entries = next

	// Collapse once the whole image agrees again.
	if s, ok := t.Uniform(); ok && len(t.entries) > 1 {
		t.Reset(s)
	}
	return changes
}

// State returns the state of a single subresource. The second result is false
// if the subresource lies outside the tracked image.
func (t *Tracker[S]) State(layer, mip uint32) (S, bool) {
	for _, e := range t.entries {
		if e.Range.ContainsSubresource(layer, mip) {
			return e.State, true
		}
	}
	var zero S
	return zero, false
}

// Uniform reports whether every subresource is in the same state, and returns
// that state.
func (t *Tracker[S]) Uniform() (S, bool) {
	var zero S
	if len(t.entries) == 0 {
		return zero, false
	}
	s := t.entries[0].State
	for _, e := range t.entries[1:] {
		if e.State != s {
			return zero, false
		}
	}
	return s, true
}

// Reset collapses the tracker back to a single range in state s.
func (t *Tracker[S]) Reset(s S) {
	t.entries = t.entries[:0]
	if !t.whole.Empty() {
		t.entries = append(t.entries, Entry[S]{Range: t.whole, State: s})
	}
}

// Len returns the number of tracked ranges.
func (t *Tracker[S]) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the tracked ranges and their states.
func (t *Tracker[S]) Entries() []Entry[S] {
	out := make([]Entry[S], len(t.entries))
	copy(out, t.entries)
	return out
}
