// Package task runs background maintenance jobs, such as evicting idle game
// sessions, on a fixed interval until the application shuts down.
package task
