// Package events provides types and interfaces for publishing game session
// events.
//
// Services emit events without knowing which handlers will process them. In
// the application the websocket hub and the metrics collector are the
// registered handlers.
//
// The primary components are:
// - GameEvent: a state change of one game session
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
