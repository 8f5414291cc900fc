package download

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const defaultBinary = "yt-dlp"

// YTDLP downloads media through the yt-dlp binary, preferring an MP4
// video+audio mux.
type YTDLP struct {
	OutputDir string
	Binary    string
}

func NewYTDLP(outputDir string) *YTDLP {
	return &YTDLP{OutputDir: outputDir, Binary: defaultBinary}
}

func (y *YTDLP) Fetch(ctx context.Context, rawURL string) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("%w: a URL is required", ErrInvalidURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	if err := os.MkdirAll(y.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	// Resolve the final filename first so the caller gets a path even
	// when yt-dlp renames by title.
	probe := exec.CommandContext(ctx, y.Binary, append([]string{"--print", "filename"}, y.args(rawURL)...)...)
	out, err := probe.Output()
	if err != nil {
		return "", fmt.Errorf("failed to resolve media filename: %w", err)
	}
	path := strings.TrimSpace(string(out))

	log.Debug().Str("url", rawURL).Str("path", path).Msg("downloading media")
	cmd := exec.CommandContext(ctx, y.Binary, y.args(rawURL)...)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to download media: %w", err)
	}

	return path, nil
}

func (y *YTDLP) args(rawURL string) []string {
	return []string{
		"--output", filepath.Join(y.OutputDir, "%(title)s.%(ext)s"),
		"--format", "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
		"--merge-output-format", "mp4",
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		rawURL,
	}
}
