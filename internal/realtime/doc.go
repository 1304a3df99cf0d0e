// Package realtime pushes game events to browsers over websockets. The Hub
// is an events.EventHandler; each connected Client subscribes to exactly
// one game session and receives that session's events as JSON messages.
package realtime
