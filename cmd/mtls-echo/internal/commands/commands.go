package commands

// Globals is bound into every command Run by main.
type Globals struct {
	Debug   bool
	Version string
}
