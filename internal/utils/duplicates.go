package utils

// NameFilter tracks names already seen in one pass over a list.
// Matching is case-sensitive since AXS identifiers are.
type NameFilter struct {
	seen map[string]int
}

// NewNameFilter creates an empty filter.
func NewNameFilter() *NameFilter {
	return &NameFilter{seen: make(map[string]int)}
}

// Add records name at position pos. It returns the position of the earlier
// occurrence and false when name was already recorded.
func (f *NameFilter) Add(name string, pos int) (int, bool) {
	if first, ok := f.seen[name]; ok {
		return first, false
	}
	f.seen[name] = pos
	return pos, true
}

// Len returns the number of distinct names recorded.
func (f *NameFilter) Len() int {
	return len(f.seen)
}
