package download

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchRejectsEmptyURL(t *testing.T) {
	y := NewYTDLP(t.TempDir())
	_, err := y.Fetch(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidURL)
}

func TestFetchRejectsNonHTTPURL(t *testing.T) {
	y := NewYTDLP(t.TempDir())
	for _, raw := range []string{"ftp://example.com/v", "file:///etc/passwd", "not a url", "//missing-scheme"} {
		_, err := y.Fetch(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidURL, "url %q must be rejected", raw)
	}
}

func TestFetchFailsWhenBinaryMissing(t *testing.T) {
	y := NewYTDLP(t.TempDir())
	y.Binary = filepath.Join(t.TempDir(), "no-such-binary")

	_, err := y.Fetch(context.Background(), "https://example.com/v")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidURL, "a missing binary is a backend failure, not a caller error")
}

func TestArgsTargetOutputDirectory(t *testing.T) {
	y := NewYTDLP("/srv/media")
	args := y.args("https://example.com/v")

	assert.Contains(t, args, filepath.Join("/srv/media", "%(title)s.%(ext)s"))
	assert.Contains(t, args, "--no-playlist")
	assert.Equal(t, "https://example.com/v", args[len(args)-1])
}
