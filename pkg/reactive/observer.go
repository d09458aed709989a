package reactive

import "time"

// PropagationStats describes one completed (or aborted) propagation batch.
type PropagationStats struct {
	// Root is the ID of the binding whose write started the batch.
	Root uint64

	// Label is the root binding's label, if it was named.
	Label string

	// Nodes is the size of the downstream closure, root included.
	Nodes int

	// Recomputed counts derivation evaluations during the batch, including
	// evaluations pulled by Get calls made from watchers.
	Recomputed int

	// Notified counts watcher invocations.
	Notified int

	Start    time.Time
	Duration time.Duration

	// Panicked is true when a derivation or watcher panicked mid-batch.
	Panicked bool
}

// Observer receives statistics after every propagation batch.
// Observers run synchronously on the propagating goroutine.
type Observer interface {
	ObservePropagation(stats PropagationStats)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(PropagationStats)

// ObservePropagation calls f(stats).
func (f ObserverFunc) ObservePropagation(stats PropagationStats) {
	f(stats)
}
