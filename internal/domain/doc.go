// Package domain contains the core entities of the water cycle memory game:
// the fixed stages of the lesson, the card instances derived from them and
// the shuffled deck a session plays with. It is independent of any timer,
// transport or storage concern.
package domain
