// Package service contains the application use cases of the memory game.
// It orchestrates game sessions (internal/domain/game) held in a session
// store (defined in internal/store) and publishes their state changes
// through an events emitter.
//
// Key components:
//
// 1. GameService:
//   - Creates, looks up, plays, restarts and ends sessions keyed by UUID
//   - Records activity on each call so idle sessions can be evicted
//
// 2. Events:
//   - Every session change is converted to an events.GameEvent
//   - Handlers (metrics, realtime push) receive events outside session locks
//
// 3. Error Handling:
//   - Failures are wrapped in GameServiceError with the operation name
//   - Callers use errors.Is with the store, domain and game sentinel errors
//
// The service layer depends on domain types and the store interface, never on
// a specific store implementation.
package service
