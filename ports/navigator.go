package ports

// Navigator is the seam to the page-level UI, which owns rendering and
// routing. Navigate performs a full navigation to the given path, so
// every component reinitializes against the current session state.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a plain function to the Navigator interface.
type NavigatorFunc func(path string)

// Navigate calls f(path).
func (f NavigatorFunc) Navigate(path string) { f(path) }
