package audio

// Config holds the parameters a capture stream is opened with.
type Config struct {
	SampleRate     float64
	Channels       int
	FramesPerChunk int
}

// Recorder opens exclusive input streams against a capture device.
type Recorder interface {
	Open(cfg Config) (Stream, error)
}

// Stream is an open input stream delivering fixed-size sample chunks.
type Stream interface {
	// Read blocks until one full chunk of FramesPerChunk samples per
	// channel is available.
	Read() ([]int16, error)

	// Close stops the stream and releases the device.
	Close() error
}

// GetDefaultConfig returns the capture parameters used for voice-grade
// recordings.
func GetDefaultConfig() Config {
	return Config{
		SampleRate:     44100,
		Channels:       1,
		FramesPerChunk: 1024,
	}
}
