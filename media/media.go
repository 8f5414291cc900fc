// Package media implements the playback and capture controller: a
// single-session playback state machine over a playback engine, and
// duration-bounded capture of microphone audio, camera video and display
// snapshots into a configured output directory.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/d1nch8g/office/audio"
	"github.com/d1nch8g/office/camera"
	"github.com/d1nch8g/office/engine"
	"github.com/d1nch8g/office/screen"
)

// Controller is the single entry point for playback and capture. At most
// one playback session runs at a time; capture calls execute on the
// calling goroutine and block for their full duration.
type Controller struct {
	outDir string
	log    zerolog.Logger

	newEngine func() engine.Engine
	mic       audio.Recorder
	cam       camera.Camera
	display   screen.Display

	mu   sync.Mutex
	sess *session

	// One capture of each kind at a time; a second caller fails fast
	// with ErrDeviceUnavailable instead of queueing.
	micMu  sync.Mutex
	camMu  sync.Mutex
	dispMu sync.Mutex

	pollInterval time.Duration
}

// New creates a controller writing all outputs under outDir. newEngine
// is invoked once per playback session; the returned engine is owned by
// that session's worker until it terminates.
func New(
	outDir string,
	newEngine func() engine.Engine,
	mic audio.Recorder,
	cam camera.Camera,
	display screen.Display,
	log zerolog.Logger,
) *Controller {
	return &Controller{
		outDir:       outDir,
		log:          log,
		newEngine:    newEngine,
		mic:          mic,
		cam:          cam,
		display:      display,
		pollInterval: defaultPollInterval,
	}
}

// State reports the current playback session state. With no session it
// reports StateIdle.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return StateIdle
	}
	return c.sess.State()
}

// outPath maps a destination name onto the output directory, creating
// the directory on first use. Only the base name is honored so outputs
// cannot escape the directory.
func (c *Controller) outPath(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty destination name", ErrInvalidInput)
	}
	if err := os.MkdirAll(c.outDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: failed to create output directory: %v", ErrIO, err)
	}
	return filepath.Join(c.outDir, filepath.Base(name)), nil
}
