package reactive

import "sync/atomic"

// globalIDCounter is the source of unique IDs for graph nodes and watchers.
var globalIDCounter uint64

// nextID returns the next unique ID. IDs are monotonically increasing and
// never reused, which makes them a stable tie-break when ordering nodes.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}
