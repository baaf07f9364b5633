package filter

import "strings"

// Selection is the set of active filter chips in toggle order.
type Selection struct {
	names []string
}

func NewSelection(names ...string) Selection {
	var s Selection
	for _, n := range names {
		if !s.Has(n) {
			s.names = append(s.names, n)
		}
	}
	return s
}

func (s Selection) Has(name string) bool {
	return containsFold(s.names, name)
}

// Toggle adds name when absent and removes it otherwise.
func (s Selection) Toggle(name string) Selection {
	out := make([]string, 0, len(s.names)+1)
	removed := false
	for _, n := range s.names {
		if strings.EqualFold(n, name) {
			removed = true
			continue
		}
		out = append(out, n)
	}
	if !removed {
		out = append(out, name)
	}
	return Selection{names: out}
}

func (s Selection) Clear() Selection { return Selection{} }

func (s Selection) Names() []string { return append([]string(nil), s.names...) }

func (s Selection) Len() int { return len(s.names) }

// Key is a canonical, order-independent form used for memoization.
func (s Selection) Key() string {
	return setKey(s.names)
}
