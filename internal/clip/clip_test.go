package clip

import (
	"testing"

	"github.com/atotto/clipboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopy(t *testing.T) {
	if clipboard.Unsupported {
		require.ErrorIs(t, Copy("vs_1"), ErrUnsupported)
		return
	}
	var got string
	orig := writeAll
	writeAll = func(s string) error { got = s; return nil }
	t.Cleanup(func() { writeAll = orig })

	require.NoError(t, Copy("  vs_1\n"))
	assert.Equal(t, "vs_1", got)
}

func TestCopy_Empty(t *testing.T) {
	assert.EqualError(t, Copy("  "), "nothing to copy")
}
