package cursor

import "sort"

// Set manages one or more selections, kept sorted by position with
// overlapping extents merged. The first selection is the primary one.
// A Set always contains at least one selection.
type Set struct {
	selections []Selection
}

// NewSet creates a set with a single cursor at offset.
func NewSet(offset ByteOffset) *Set {
	return &Set{selections: []Selection{At(offset)}}
}

// NewSetFrom creates a set from selections, normalizing them.
func NewSetFrom(sels []Selection) *Set {
	if len(sels) == 0 {
		return NewSet(0)
	}
	s := &Set{selections: make([]Selection, len(sels))}
	copy(s.selections, sels)
	s.normalize()
	return s
}

// Primary returns the primary (first) selection.
func (s *Set) Primary() Selection {
	return s.selections[0]
}

// PrimaryHead returns the head offset of the primary selection.
func (s *Set) PrimaryHead() ByteOffset {
	return s.selections[0].Head
}

// All returns a copy of all selections.
func (s *Set) All() []Selection {
	out := make([]Selection, len(s.selections))
	copy(out, s.selections)
	return out
}

// Count returns the number of selections.
func (s *Set) Count() int {
	return len(s.selections)
}

// IsMulti returns true if the set holds multiple selections.
func (s *Set) IsMulti() bool {
	return len(s.selections) > 1
}

// Set replaces all selections with one.
func (s *Set) Set(sel Selection) {
	s.selections = []Selection{sel}
}

// SetAll replaces all selections.
func (s *Set) SetAll(sels []Selection) {
	if len(sels) == 0 {
		s.selections = []Selection{At(0)}
		return
	}
	s.selections = make([]Selection, len(sels))
	copy(s.selections, sels)
	s.normalize()
}

// Add adds a selection, merging it into any it touches.
func (s *Set) Add(sel Selection) {
	s.selections = append(s.selections, sel)
	s.normalize()
}

// Map replaces every selection with fn(sel), then re-normalizes.
func (s *Set) Map(fn func(Selection) Selection) {
	for i, sel := range s.selections {
		s.selections[i] = fn(sel)
	}
	s.normalize()
}

// CollapseAll collapses every selection to its head.
func (s *Set) CollapseAll() {
	s.Map(Selection.Collapse)
}

// Clamp clamps every selection to [0, maxOffset].
func (s *Set) Clamp(maxOffset ByteOffset) {
	s.Map(func(sel Selection) Selection { return sel.Clamp(maxOffset) })
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	return &Set{selections: s.All()}
}

// normalize sorts selections by start and merges any that overlap.
// Distinct cursors at the same offset collapse into one.
func (s *Set) normalize() {
	if len(s.selections) <= 1 {
		return
	}
	sort.Slice(s.selections, func(i, j int) bool {
		a, b := s.selections[i], s.selections[j]
		if a.Start() != b.Start() {
			return a.Start() < b.Start()
		}
		return a.End() < b.End()
	})
	merged := s.selections[:1]
	for _, sel := range s.selections[1:] {
		last := &merged[len(merged)-1]
		switch {
		case sel.IsEmpty() && last.IsEmpty() && sel.Head == last.Head:
			// duplicate cursor
		case sel.IsEmpty() && last.Contains(sel.Head):
			// cursor inside a selection disappears into it
		case !sel.IsEmpty() && !last.IsEmpty() && last.Range().Overlaps(sel.Range()):
			*last = last.Merge(sel)
		default:
			merged = append(merged, sel)
		}
	}
	s.selections = merged
}
