package race

// setInput replaces the player's typed text.
type setInput struct {
	Text string
}

// restart reinitializes the race from its setup.
type restart struct{}
