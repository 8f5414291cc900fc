package tts

import "context"

// Synthesizer defines the interface for text-to-speech synthesis
type Synthesizer interface {
	// Synthesize streams raw LINEAR16 PCM of the spoken text into
	// audioData and closes the channel when synthesis finishes.
	Synthesize(ctx context.Context, text string, audioData chan<- []byte) error

	// Close closes the client and cleans up resources
	Close() error
}

// Options represents the configuration for speech synthesis
type Options struct {
	Voice      string
	Speed      float64
	Model      string
	SampleRate int64
}

// GetDefaultOptions returns the synthesis parameters matching the
// default sound player configuration.
func GetDefaultOptions() Options {
	return Options{
		Voice:      "jane",
		Speed:      1.0,
		Model:      "general",
		SampleRate: 44100,
	}
}
