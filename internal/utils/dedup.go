package utils

// ConsequentFilter tracks which consequent item ids have already been
// emitted, so a caller can keep only the first occurrence of each as it
// walks a fused suggestion stream.
type ConsequentFilter struct {
	seen map[uint32]bool
}

// NewConsequentFilter creates an empty filter.
func NewConsequentFilter() *ConsequentFilter {
	return &ConsequentFilter{seen: make(map[uint32]bool)}
}

// ShouldInclude reports whether id should be included in results (not yet
// seen), marking it seen either way.
func (f *ConsequentFilter) ShouldInclude(id uint32) bool {
	if f.seen[id] {
		return false
	}
	f.seen[id] = true
	return true
}
