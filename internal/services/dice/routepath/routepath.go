// Package routepath names the dice service's HTTP paths. Handlers and the
// root redirect both resolve targets from these constants.
package routepath

const (
	Root = "/"
)

const (
	DiceRoll = "/dice/roll"
)

const (
	Up = "/up"
)
