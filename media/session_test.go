package media

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d1nch8g/office/engine"
)

type fakeEngine struct {
	mu        sync.Mutex
	status    engine.Status
	attachErr error
	playErr   error
	attached  string
	released  bool
}

func (e *fakeEngine) Attach(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.attachErr != nil {
		return e.attachErr
	}
	e.attached = path
	return nil
}

func (e *fakeEngine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playErr
}

func (e *fakeEngine) Status() engine.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

func (e *fakeEngine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.released = true
}

func (e *fakeEngine) setStatus(s engine.Status) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = s
}

func (e *fakeEngine) isReleased() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.released
}

// engineFactory hands out fake engines and counts acquisitions.
type engineFactory struct {
	mu      sync.Mutex
	engines []*fakeEngine
	prepare func(*fakeEngine)
}

func (f *engineFactory) new() engine.Engine {
	f.mu.Lock()
	defer f.mu.Unlock()
	eng := &fakeEngine{}
	if f.prepare != nil {
		f.prepare(eng)
	}
	f.engines = append(f.engines, eng)
	return eng
}

func (f *engineFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.engines)
}

func (f *engineFactory) last() *fakeEngine {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.engines) == 0 {
		return nil
	}
	return f.engines[len(f.engines)-1]
}

func newPlaybackController(t *testing.T, factory *engineFactory) *Controller {
	t.Helper()
	c := New(t.TempDir(), factory.new, nil, nil, nil, zerolog.Nop())
	c.pollInterval = 5 * time.Millisecond
	return c
}

func mediaFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.mp3")
	require.NoError(t, os.WriteFile(path, []byte("not really mp3"), 0o644))
	return path
}

func TestStartRejectsUnreadablePath(t *testing.T) {
	c := newPlaybackController(t, &engineFactory{})

	err := c.Start(filepath.Join(t.TempDir(), "missing.mp3"))
	require.ErrorIs(t, err, ErrInvalidInput)

	err = c.Start(t.TempDir())
	require.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, StateIdle, c.State())
}

func TestStartWhileActiveReturnsBusy(t *testing.T) {
	factory := &engineFactory{}
	c := newPlaybackController(t, factory)
	path := mediaFile(t)

	require.NoError(t, c.Start(path))
	assert.Equal(t, StatePlaying, c.State())

	err := c.Start(path)
	require.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, StatePlaying, c.State(), "rejected start must not disturb the running session")
	assert.Equal(t, 1, factory.count(), "rejected start must not acquire an engine")

	require.NoError(t, c.Stop())
}

func TestStopWithoutSessionReturnsNotPlaying(t *testing.T) {
	c := newPlaybackController(t, &engineFactory{})
	require.ErrorIs(t, c.Stop(), ErrNotPlaying)
}

func TestStopJoinsWorkerAndReleasesEngine(t *testing.T) {
	factory := &engineFactory{}
	c := newPlaybackController(t, factory)
	path := mediaFile(t)

	require.NoError(t, c.Start(path))
	require.NoError(t, c.Stop())

	assert.True(t, factory.last().isReleased(), "engine must be released before Stop returns")
	assert.Equal(t, StateStopped, c.State())

	// Resources are fully released, so an immediate restart never races.
	require.NoError(t, c.Start(path))
	require.NoError(t, c.Stop())
}

func TestStartAfterStopNeverBusy(t *testing.T) {
	factory := &engineFactory{}
	c := newPlaybackController(t, factory)
	path := mediaFile(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, c.Start(path), "iteration %d", i)
		require.NoError(t, c.Stop(), "iteration %d", i)
	}
	assert.Equal(t, 5, factory.count())
}

func TestNaturalEndTransitionsToStopped(t *testing.T) {
	factory := &engineFactory{}
	c := newPlaybackController(t, factory)
	path := mediaFile(t)

	require.NoError(t, c.Start(path))
	factory.last().setStatus(engine.StatusEnded)

	require.Eventually(t, func() bool {
		return c.State() == StateStopped && factory.last().isReleased()
	}, time.Second, 5*time.Millisecond)

	require.ErrorIs(t, c.Stop(), ErrNotPlaying)
	require.NoError(t, c.Start(path))
	require.NoError(t, c.Stop())
}

func TestEngineErrorTransitionsToErrored(t *testing.T) {
	factory := &engineFactory{}
	c := newPlaybackController(t, factory)

	require.NoError(t, c.Start(mediaFile(t)))
	factory.last().setStatus(engine.StatusError)

	// The session releases its resources without an explicit Stop.
	require.Eventually(t, func() bool {
		return c.State() == StateErrored && factory.last().isReleased()
	}, time.Second, 5*time.Millisecond)

	require.ErrorIs(t, c.Stop(), ErrNotPlaying)
}

func TestAttachFailureSurfacesEngineFailure(t *testing.T) {
	factory := &engineFactory{prepare: func(e *fakeEngine) {
		e.attachErr = assert.AnError
	}}
	c := newPlaybackController(t, factory)
	path := mediaFile(t)

	err := c.Start(path)
	require.ErrorIs(t, err, ErrEngineFailure)
	assert.Equal(t, StateErrored, c.State())

	require.Eventually(t, func() bool {
		return factory.last().isReleased()
	}, time.Second, 5*time.Millisecond)

	// The session is re-armable after an engine failure.
	factory.prepare = nil
	require.NoError(t, c.Start(path))
	require.NoError(t, c.Stop())
}

func TestPlayFailureSurfacesEngineFailure(t *testing.T) {
	factory := &engineFactory{prepare: func(e *fakeEngine) {
		e.playErr = assert.AnError
	}}
	c := newPlaybackController(t, factory)

	err := c.Start(mediaFile(t))
	require.ErrorIs(t, err, ErrEngineFailure)
	require.Eventually(t, func() bool {
		return factory.last().isReleased()
	}, time.Second, 5*time.Millisecond)
}

func TestConcurrentStartsHaveOneWinner(t *testing.T) {
	factory := &engineFactory{}
	c := newPlaybackController(t, factory)
	path := mediaFile(t)

	const callers = 8
	var wg sync.WaitGroup
	var wins, busy atomic.Int32
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch err := c.Start(path); {
			case err == nil:
				wins.Add(1)
			case assert.ErrorIs(t, err, ErrBusy):
				busy.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(callers-1), busy.Load())
	assert.Equal(t, 1, factory.count(), "only the winner may acquire an engine")

	require.NoError(t, c.Stop())
}

func TestConcurrentStopsFirstWins(t *testing.T) {
	factory := &engineFactory{}
	c := newPlaybackController(t, factory)

	require.NoError(t, c.Start(mediaFile(t)))

	const callers = 4
	var wg sync.WaitGroup
	var wins, notPlaying atomic.Int32
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch err := c.Stop(); {
			case err == nil:
				wins.Add(1)
			case assert.ErrorIs(t, err, ErrNotPlaying):
				notPlaying.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(callers-1), notPlaying.Load())
	assert.True(t, factory.last().isReleased())
}

func TestStopLatencyIsBounded(t *testing.T) {
	factory := &engineFactory{}
	c := newPlaybackController(t, factory)
	c.pollInterval = 50 * time.Millisecond

	require.NoError(t, c.Start(mediaFile(t)))

	start := time.Now()
	require.NoError(t, c.Stop())
	assert.Less(t, time.Since(start), time.Second,
		"stop must return within a couple of poll intervals")
}
