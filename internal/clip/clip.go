// Package clip copies collection ids to the system clipboard.
package clip

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available
// (for example xclip/xsel missing on Linux).
var ErrUnsupported = errors.New("clipboard not available on this system")

// writeAll is swapped in tests.
var writeAll = clipboard.WriteAll

// Copy writes the trimmed text to the clipboard.
func Copy(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("nothing to copy")
	}
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return writeAll(text)
}
