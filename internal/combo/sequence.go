// Package combo holds the combo sequence and the logic that maps a drag
// gesture onto an insertion index in it.
package combo

import (
	"strings"

	"trickadex/internal/catalog"
)

// TextSeparator joins trick names in Text.
const TextSeparator = " -> "

// Sequence is an ordered list of tricks. The same trick may appear more
// than once. The zero value is an empty sequence.
type Sequence struct {
	items []catalog.Trick
}

func (s *Sequence) Len() int { return len(s.items) }

func (s *Sequence) Items() []catalog.Trick {
	return append([]catalog.Trick(nil), s.items...)
}

func (s *Sequence) At(i int) (catalog.Trick, bool) {
	if i < 0 || i >= len(s.items) {
		return catalog.Trick{}, false
	}
	return s.items[i], true
}

// Insert places t at index i, clamped to [0, Len()], and returns the
// index actually used.
func (s *Sequence) Insert(i int, t catalog.Trick) int {
	i = clampInt(i, 0, len(s.items))
	s.items = append(s.items, catalog.Trick{})
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = t
	return i
}

func (s *Sequence) Append(t catalog.Trick) { s.items = append(s.items, t) }

// RemoveAt deletes the item at i. Out of range indices are ignored.
func (s *Sequence) RemoveAt(i int) bool {
	if i < 0 || i >= len(s.items) {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// Reorder moves the item at from to position to in the shortened list.
// from out of range is a no-op; to is clamped. It returns the final index
// of the moved item, or -1.
func (s *Sequence) Reorder(from, to int) int {
	t, ok := s.At(from)
	if !ok {
		return -1
	}
	s.RemoveAt(from)
	return s.Insert(to, t)
}

func (s *Sequence) Clear() { s.items = nil }

// Text renders the sequence as "A -> B -> C".
func (s *Sequence) Text() string {
	names := make([]string, len(s.items))
	for i, t := range s.items {
		names[i] = t.Name
	}
	return strings.Join(names, TextSeparator)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
