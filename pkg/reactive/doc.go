// Package reactive provides the signal graph: mutable bindings, derived
// computations and constants, wired into a dependency DAG with push-based,
// glitch-free propagation.
//
// # Core Types
//
// Binding[T] is a mutable cell shared by every holder of the handle:
//
//	count := reactive.NewBinding(0)
//	count.Set(5)
//	count.Update(func(n *int) { *n++ })
//
// Computed[T] is derived from one or more upstream signals:
//
//	doubled := reactive.Map(count, func(n int) int { return n * 2 })
//	sum := reactive.Map(reactive.Zip(count, doubled), func(p reactive.Pair[int, int]) int {
//	    return p.First + p.Second
//	})
//
// Constant[T] never changes and never notifies.
//
// # Propagation
//
// Every Set or Update starts one propagation batch. The batch visits the
// downstream closure of the written binding exactly once, ordered by
// dependency height (bindings are height 0, a computed node is one higher
// than its highest source). A node is therefore recomputed only after all
// of its updated sources, and a diamond-shaped graph recomputes its join
// node once per batch.
//
// Watchers registered with Watch fire after their node has been refreshed.
// Watch returns a *Guard; calling Release on it unsubscribes immediately,
// including from inside the watcher's own callback.
//
// A computed node is linked into its sources only while something observes
// it (a watcher or an observed downstream node). Unobserved computed nodes
// are evaluated on demand by Get and are reclaimed by the garbage collector
// once their handles are dropped.
//
// # Writes During Propagation
//
// A watcher may write to a binding. The value is installed immediately and
// the resulting batch is queued; queued batches run in FIFO order once the
// current batch completes.
//
// # Failures
//
// Derivation functions are not allowed to fail. A panic inside one unwinds
// through Set or Update to the caller. New values are installed only after
// the derivation returns, so nodes that were not reached keep their previous
// values and are recomputed by the next Get or batch.
//
// # Thread Safety
//
// A Runtime is single-threaded. All signals that share a Runtime must be
// driven from one goroutine at a time; hosts with several goroutines must
// funnel writes through a single owner.
package reactive
