package dom

import "sync"

// expandoRegistry assigns a stable, process-wide identity to nodes on
// first request. It mirrors the rangeRegistries pattern in
// range_mutations.go: a pointer-keyed map guarded by a mutex, scoped to
// the lifetime of the node itself rather than any one document.
var (
	expandoMu   sync.Mutex
	expandoIDs  = make(map[*Node]uint64)
	expandoNext uint64
)

// EnsureExpandoID returns a stable identifier for n, assigning one on
// first use. Two calls with the same live node always return the same
// id; two different nodes never share one. This is the only
// process-wide state the package keeps beyond the live tree itself, and
// its lifetime is the node's lifetime in the host tree.
func EnsureExpandoID(n *Node) uint64 {
	if n == nil {
		return 0
	}
	expandoMu.Lock()
	defer expandoMu.Unlock()
	if id, ok := expandoIDs[n]; ok {
		return id
	}
	expandoNext++
	id := expandoNext
	expandoIDs[n] = id
	return id
}

// forgetExpandoID drops a node's identity entry. Not required for
// correctness (a GC'd node can never be looked up again) but keeps the
// map from growing across long-lived documents that churn nodes.
func forgetExpandoID(n *Node) {
	if n == nil {
		return
	}
	expandoMu.Lock()
	delete(expandoIDs, n)
	expandoMu.Unlock()
}
