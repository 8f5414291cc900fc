package media

import "errors"

// Every failure returned by the controller wraps exactly one of these
// sentinels, so callers can classify outcomes with errors.Is.
var (
	// ErrInvalidInput is returned when a media path does not reference a
	// readable file, before any resource is acquired.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidDuration is returned for non-positive, non-finite or
	// overlong capture durations, before any device is touched.
	ErrInvalidDuration = errors.New("duration must be a positive number")

	// ErrBusy is returned by Start while another playback session is
	// still holding the engine.
	ErrBusy = errors.New("another playback is already in progress")

	// ErrNotPlaying is returned by Stop when no session is active.
	ErrNotPlaying = errors.New("no playback is currently active")

	// ErrDeviceUnavailable is returned when a microphone, camera,
	// display or engine device cannot be acquired.
	ErrDeviceUnavailable = errors.New("device unavailable")

	// ErrEngineFailure is returned when the playback engine reports an
	// error state.
	ErrEngineFailure = errors.New("playback engine failure")

	// ErrIO is returned for encode or write failures; partially written
	// output files are not guaranteed to be valid.
	ErrIO = errors.New("i/o failure")
)
