// Package web renders the game as server-side HTML. Every action works as a
// plain form post; an embedded script upgrades the page to JSON API calls
// and refreshes the board whenever the game's websocket reports an event.
package web
