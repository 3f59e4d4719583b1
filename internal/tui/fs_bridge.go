package tui

import (
	"vsupload/internal/fspaths"
)

// expandPaths is a tiny bridge over fspaths.Expand so tests can swap it.
var expandPaths = func(paths []string, opts fspaths.Options) ([]string, error) {
	return fspaths.Expand(paths, opts)
}
