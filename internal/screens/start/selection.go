package start

import "slices"

// selection is an ordered set of selected topic names. Order is the order
// of selection, which becomes the order topics are listed in the prompt.
type selection []string

func (s selection) has(name string) bool {
	return slices.Contains(s, name)
}

func (s selection) toggle(name string) selection {
	if i := slices.Index(s, name); i >= 0 {
		return slices.Delete(slices.Clone(s), i, i+1)
	}
	return append(slices.Clone(s), name)
}

func (s selection) remove(name string) selection {
	if !s.has(name) {
		return s
	}
	return s.toggle(name)
}

// allSelected reports whether every name in visible is selected. An empty
// visible list is never all selected.
func (s selection) allSelected(visible []string) bool {
	if len(visible) == 0 {
		return false
	}
	for _, n := range visible {
		if !s.has(n) {
			return false
		}
	}
	return true
}

// toggleAll deselects every visible name when all are selected, and
// otherwise selects the missing ones. Selections outside visible are kept.
func (s selection) toggleAll(visible []string) selection {
	if s.allSelected(visible) {
		return slices.DeleteFunc(slices.Clone(s), func(n string) bool {
			return slices.Contains(visible, n)
		})
	}
	out := slices.Clone(s)
	for _, n := range visible {
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}
