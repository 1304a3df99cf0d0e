// Package store defines interfaces for holding live game sessions.
// These interfaces abstract the underlying storage mechanism from the
// application's core logic. Sessions are kept in memory only; nothing
// survives a process restart.
package store
