package tle

// ElementSet is a single satellite's two-line element set plus its free-form
// name line. Immutable once parsed; the propagation layer consumes it as-is
// and discards it after a run.
type ElementSet struct {
	Name  string
	Line1 string
	Line2 string
}
