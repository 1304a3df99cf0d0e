// Package api handles the JSON API of the memory game: routing, request
// validation and response formatting. It acts as an adapter between HTTP
// clients and the game service, and upgrades event requests to websockets
// served by the realtime hub.
package api
