// Package metrics exposes Prometheus metrics about game sessions. The
// Collector is registered with the events emitter and derives every metric
// from the game events it receives.
package metrics
