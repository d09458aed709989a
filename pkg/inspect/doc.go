// Package inspect serves a small HTTP API for exploring layouts while
// developing them.
//
// Routes:
//
//	GET  /health   liveness and connected client count
//	POST /layout   lay out a scene document; ?width= and ?height= override
//	               the scene's proposal ("none" or 0 for unbounded)
//	GET  /metrics  Prometheus metrics
//	GET  /events   WebSocket stream of propagation and layout events
//
// Errors are returned as JSON objects carrying the lattice error code.
package inspect
