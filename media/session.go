package media

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/d1nch8g/office/engine"
)

// The worker checks engine status and the cancellation signal once per
// interval. Sub-second polling buys nothing for human-triggered stops.
const defaultPollInterval = time.Second

// session is the state of one playback. It is created by Start and owned
// by its worker goroutine; done is closed only after every engine
// resource has been released.
type session struct {
	path  string
	state atomic.Int32

	cancel   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func (s *session) State() State {
	return State(s.state.Load())
}

func (s *session) setState(st State) {
	s.state.Store(int32(st))
}

func (s *session) terminated() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// requestStop signals the worker. It reports whether this caller was the
// first to do so.
func (s *session) requestStop() bool {
	won := false
	s.stopOnce.Do(func() {
		close(s.cancel)
		won = true
	})
	return won
}

// Start begins playback of the media file at path in a background
// worker. It returns once the engine has attached the media and started
// rendering; the worker then polls engine status until playback ends, an
// engine error occurs, or Stop is called.
//
// Start fails with ErrInvalidInput if path is not a readable file, with
// ErrBusy if a session is still active, and with ErrEngineFailure if the
// engine cannot attach or start the media.
func (c *Controller) Start(path string) error {
	if err := checkMediaFile(path); err != nil {
		return err
	}

	c.mu.Lock()
	if c.sess != nil && !c.sess.terminated() {
		c.mu.Unlock()
		return ErrBusy
	}
	s := &session{
		path:   path,
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
	s.setState(StateStarting)
	c.sess = s
	c.mu.Unlock()

	attached := make(chan error, 1)
	go c.runPlayback(s, attached)

	if err := <-attached; err != nil {
		return err
	}

	c.log.Info().Str("path", path).Msg("playback started")
	return nil
}

// Stop signals the active session and blocks until its worker has fully
// terminated and released the engine, so a Start issued right after Stop
// returns can never observe ErrBusy.
//
// With concurrent stops the first caller wins; the second blocks behind
// the same join and then reports ErrNotPlaying.
func (c *Controller) Stop() error {
	c.mu.Lock()
	s := c.sess
	c.mu.Unlock()

	if s == nil || s.terminated() {
		return ErrNotPlaying
	}

	won := s.requestStop()
	<-s.done

	if !won {
		return ErrNotPlaying
	}
	c.log.Info().Str("path", s.path).Msg("playback stopped")
	return nil
}

// runPlayback is the session worker. Engine resources are released on
// every exit path, including panics in the poll loop, and strictly
// before done is closed.
func (c *Controller) runPlayback(s *session, attached chan<- error) {
	defer close(s.done)

	eng := c.newEngine()
	defer func() {
		eng.Release()
		if s.State() == StateStopping {
			s.setState(StateStopped)
		}
	}()

	if err := eng.Attach(s.path); err != nil {
		s.setState(StateErrored)
		attached <- fmt.Errorf("%w: %v", ErrEngineFailure, err)
		return
	}
	if err := eng.Play(); err != nil {
		s.setState(StateErrored)
		attached <- fmt.Errorf("%w: %v", ErrEngineFailure, err)
		return
	}

	s.setState(StatePlaying)
	attached <- nil

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.cancel:
			s.setState(StateStopping)
			return
		case <-ticker.C:
			switch eng.Status() {
			case engine.StatusEnded:
				s.setState(StateStopped)
				c.log.Debug().Str("path", s.path).Msg("playback completed")
				return
			case engine.StatusError:
				s.setState(StateErrored)
				c.log.Warn().Str("path", s.path).Msg("engine reported an error state")
				return
			}
		}
	}
}

func checkMediaFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: media file %q is not accessible: %v", ErrInvalidInput, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %q is a directory", ErrInvalidInput, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: media file %q is not readable: %v", ErrInvalidInput, path, err)
	}
	return f.Close()
}
