package reactive

// Guard controls the lifetime of a Watch subscription. Releasing it
// unsubscribes synchronously; the watcher will not run again, even later in
// a batch that is already in progress.
type Guard struct {
	n *node
	w *watcher
}

func watch(n *node, fire func()) *Guard {
	w := &watcher{
		id:     nextID(),
		fire:   fire,
		active: true,
	}
	n.addWatcher(w)
	return &Guard{n: n, w: w}
}

// Release unsubscribes the watcher. It is safe to call more than once, on a
// nil guard, and from inside the watcher's own callback.
func (g *Guard) Release() {
	if g == nil || g.w == nil || !g.w.active {
		return
	}
	g.w.active = false
	g.n.removeWatcher(g.w)
}

// Active reports whether the subscription is still live.
func (g *Guard) Active() bool {
	return g != nil && g.w != nil && g.w.active
}
