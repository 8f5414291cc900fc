package stt

import "context"

// Transcriber turns a recorded WAV file into text.
type Transcriber interface {
	// TranscribeFile decodes the WAV file at path and returns the
	// recognized text.
	TranscribeFile(ctx context.Context, path string) (string, error)

	// Close closes the client and cleans up resources
	Close() error
}
