package sound

import "context"

// Player defines the interface for audio playback
type Player interface {
	// Initialize initializes the audio playback system
	Initialize() error

	// Terminate terminates the audio playback system
	Terminate()

	// Open opens the output stream with configured parameters
	Open() error

	// Close closes the output stream
	Close() error

	// PlayStream plays audio data from a channel until the channel is
	// closed or the context is cancelled
	PlayStream(ctx context.Context, audioData <-chan []byte) error
}

// PlayerConfig holds the parameters an output stream is opened with.
type PlayerConfig struct {
	SampleRate      float64
	FramesPerBuffer int
	OutputChannels  int
}

// GetDefaultConfig returns the playback parameters used for spoken
// assistant replies.
func GetDefaultConfig() PlayerConfig {
	return PlayerConfig{
		SampleRate:      44100,
		FramesPerBuffer: 1024,
		OutputChannels:  1,
	}
}
