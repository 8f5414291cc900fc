// Package download resolves remote media URLs to local files.
package download

import (
	"context"
	"errors"
)

// ErrInvalidURL is returned before anything is spawned when the URL
// itself is unusable; all other failures are backend failures.
var ErrInvalidURL = errors.New("invalid media URL")

// Downloader fetches the media behind a URL into the output directory
// and returns the path of the resulting file.
type Downloader interface {
	Fetch(ctx context.Context, url string) (string, error)
}
