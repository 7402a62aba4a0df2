package browse

// MemoryNavigator is a Navigator that keeps the location in memory.
// Replace never grows history; it records how often it was called.
type MemoryNavigator struct {
	path     string
	query    string
	replaces int
	last     ReplaceOptions
}

var _ Navigator = (*MemoryNavigator)(nil)

// NewMemoryNavigator creates a navigator positioned at path?rawQuery.
func NewMemoryNavigator(path, rawQuery string) *MemoryNavigator {
	return &MemoryNavigator{path: path, query: rawQuery}
}

// Location implements Navigator.
func (n *MemoryNavigator) Location() (path, rawQuery string) {
	return n.path, n.query
}

// Replace implements Navigator.
func (n *MemoryNavigator) Replace(path, rawQuery string, opts ReplaceOptions) {
	n.path = path
	n.query = rawQuery
	n.last = opts
	n.replaces++
}

// URL returns path plus "?query" when the query is non-empty.
func (n *MemoryNavigator) URL() string {
	if n.query == "" {
		return n.path
	}
	return n.path + "?" + n.query
}

// Replaces returns the number of Replace calls so far.
func (n *MemoryNavigator) Replaces() int { return n.replaces }

// LastOptions returns the options of the latest Replace.
func (n *MemoryNavigator) LastOptions() ReplaceOptions { return n.last }
