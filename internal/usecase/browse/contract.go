package browse

// ReplaceOptions controls a URL replace.
type ReplaceOptions struct {
	// Scroll asks the host to scroll to the top after navigating.
	Scroll bool
}

// Navigator is the host's navigation primitive.
type Navigator interface {
	// Location returns the current path and raw query string (no leading "?").
	Location() (path, rawQuery string)
	// Replace swaps the current URL without adding a history entry.
	// It is fire-and-forget: the store never waits for or inspects the outcome.
	Replace(path, rawQuery string, opts ReplaceOptions)
}
