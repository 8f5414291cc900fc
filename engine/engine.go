package engine

// Status is the observable playback state of an attached engine.
type Status int

const (
	StatusPlaying Status = iota
	StatusEnded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusEnded:
		return "ended"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Engine is a narrow adapter over one playback backend. An Engine is
// single-use: Attach once, Play once, poll Status, then Release.
type Engine interface {
	// Attach loads the media file and acquires the output device.
	Attach(path string) error

	// Play starts rendering in the background and returns immediately.
	Play() error

	// Status reports the current playback state.
	Status() Status

	// Release stops rendering and frees all engine resources. It is safe
	// to call more than once and after a failed Attach.
	Release()
}
