package media

import (
	"fmt"
	"image/png"
	"math"
	"os"
	"time"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/icza/mjpeg"

	"github.com/d1nch8g/office/audio"
)

// Output formats are policy constants, not caller-tunable.
const (
	captureSampleRate = 44100
	captureChannels   = 1
	captureBitDepth   = 16
	captureChunk      = 1024

	videoWidth     = 640
	videoHeight    = 480
	videoFrameRate = 20

	// maxCaptureSeconds bounds a single capture call. Above it the
	// sample-count arithmetic would overflow int and the audio buffer
	// would not fit in memory anyway.
	maxCaptureSeconds = 24 * 60 * 60
)

// RecordAudio records duration seconds of microphone audio and writes a
// 44.1 kHz mono 16-bit WAV file named name under the output directory.
// The loop reads fixed-size chunks, so the recording is honored to
// within one chunk of the requested duration.
func (c *Controller) RecordAudio(name string, duration float64) (string, error) {
	if err := checkDuration(duration); err != nil {
		return "", err
	}

	if !c.micMu.TryLock() {
		return "", fmt.Errorf("%w: microphone is already in use", ErrDeviceUnavailable)
	}
	defer c.micMu.Unlock()

	stream, err := c.mic.Open(audio.Config{
		SampleRate:     captureSampleRate,
		Channels:       captureChannels,
		FramesPerChunk: captureChunk,
	})
	if err != nil {
		return "", fmt.Errorf("%w: microphone: %v", ErrDeviceUnavailable, err)
	}
	defer stream.Close()

	chunks := int(math.Ceil(captureSampleRate * duration / captureChunk))
	samples := make([]int, 0, chunks*captureChunk)

	c.log.Info().Float64("duration", duration).Msg("recording audio")
	for i := 0; i < chunks; i++ {
		chunk, err := stream.Read()
		if err != nil {
			return "", fmt.Errorf("%w: failed to read microphone: %v", ErrIO, err)
		}
		for _, v := range chunk {
			samples = append(samples, int(v))
		}
	}

	path, err := c.outPath(name)
	if err != nil {
		return "", err
	}
	if err := writeWAV(path, samples); err != nil {
		return "", err
	}

	c.log.Info().Str("path", path).Msg("audio saved")
	return path, nil
}

// RecordVideo records camera video for duration seconds of wall-clock
// time and writes a 640x480 20 fps MJPEG AVI file named name under the
// output directory. The frame rate is a target, not a guarantee: a frame
// read failure mid-recording ends the recording early with a
// shorter-than-requested file rather than failing the call.
func (c *Controller) RecordVideo(name string, duration float64) (string, error) {
	if err := checkDuration(duration); err != nil {
		return "", err
	}

	if !c.camMu.TryLock() {
		return "", fmt.Errorf("%w: camera is already in use", ErrDeviceUnavailable)
	}
	defer c.camMu.Unlock()

	stream, err := c.cam.Open(videoWidth, videoHeight, videoFrameRate)
	if err != nil {
		return "", fmt.Errorf("%w: camera: %v", ErrDeviceUnavailable, err)
	}
	defer stream.Close()

	path, err := c.outPath(name)
	if err != nil {
		return "", err
	}
	writer, err := mjpeg.New(path, videoWidth, videoHeight, videoFrameRate)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create %s: %v", ErrIO, path, err)
	}

	c.log.Info().Float64("duration", duration).Msg("recording video")
	frames := 0
	deadline := time.Now().Add(time.Duration(duration * float64(time.Second)))
	for time.Now().Before(deadline) {
		frame, err := stream.ReadFrame()
		if err != nil {
			// Device hiccups end the recording, they do not fail it.
			c.log.Warn().Err(err).Int("frames", frames).Msg("camera read failed, ending recording early")
			break
		}
		if err := writer.AddFrame(frame); err != nil {
			writer.Close()
			return "", fmt.Errorf("%w: failed to write frame: %v", ErrIO, err)
		}
		frames++
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: failed to finalize %s: %v", ErrIO, path, err)
	}

	c.log.Info().Str("path", path).Int("frames", frames).Msg("video saved")
	return path, nil
}

// Snapshot captures the primary display framebuffer once and writes it
// as a PNG file named name under the output directory.
func (c *Controller) Snapshot(name string) (string, error) {
	if !c.dispMu.TryLock() {
		return "", fmt.Errorf("%w: display capture is already in use", ErrDeviceUnavailable)
	}
	defer c.dispMu.Unlock()

	img, err := c.display.Capture()
	if err != nil {
		return "", fmt.Errorf("%w: display: %v", ErrDeviceUnavailable, err)
	}

	path, err := c.outPath(name)
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create %s: %v", ErrIO, path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("%w: failed to encode snapshot: %v", ErrIO, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: failed to write %s: %v", ErrIO, path, err)
	}

	c.log.Info().Str("path", path).Msg("snapshot saved")
	return path, nil
}

func checkDuration(duration float64) error {
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidDuration, duration)
	}
	if duration > maxCaptureSeconds {
		return fmt.Errorf("%w: %v exceeds the %d second limit", ErrInvalidDuration, duration, maxCaptureSeconds)
	}
	return nil
}

func writeWAV(path string, samples []int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", ErrIO, path, err)
	}

	enc := wav.NewEncoder(f, captureSampleRate, captureBitDepth, captureChannels, 1)
	buf := &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: captureChannels,
			SampleRate:  captureSampleRate,
		},
		Data:           samples,
		SourceBitDepth: captureBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		return fmt.Errorf("%w: failed to encode wav: %v", ErrIO, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("%w: failed to finalize wav: %v", ErrIO, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", ErrIO, path, err)
	}
	return nil
}
