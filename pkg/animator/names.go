package animator

import (
	"strconv"
	"sync"
)

// NameRegistry hands out animator names of the form "prefix-N", numbering
// each prefix independently from 1.
type NameRegistry struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewNameRegistry creates an empty registry.
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{counts: make(map[string]int)}
}

// DefaultNames is the process-wide registry used by animators created without
// WithNames. Tests that assert on generated names should call Reset first.
var DefaultNames = NewNameRegistry()

// Next returns the next unused name for prefix.
func (n *NameRegistry) Next(prefix string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.counts == nil {
		n.counts = make(map[string]int)
	}
	n.counts[prefix]++
	return prefix + "-" + strconv.Itoa(n.counts[prefix])
}

// Reset restarts numbering for every prefix.
func (n *NameRegistry) Reset() {
	n.mu.Lock()
	n.counts = make(map[string]int)
	n.mu.Unlock()
}
