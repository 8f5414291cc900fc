//go:build linux

package camera

import (
	"fmt"
	"strings"

	"github.com/blackjack/webcam"
)

const (
	defaultDevice    = "/dev/video0"
	frameTimeoutSecs = 5
)

// V4L2Camera captures MJPEG frames from a Video4Linux2 device.
type V4L2Camera struct {
	Device string
}

func NewV4L2Camera() *V4L2Camera {
	return &V4L2Camera{Device: defaultDevice}
}

func (c *V4L2Camera) Open(width, height, fps int) (Stream, error) {
	cam, err := webcam.Open(c.Device)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", c.Device, err)
	}

	format, err := mjpegFormat(cam)
	if err != nil {
		cam.Close()
		return nil, err
	}

	_, w, h, err := cam.SetImageFormat(format, uint32(width), uint32(height))
	if err != nil {
		cam.Close()
		return nil, fmt.Errorf("failed to set image format: %w", err)
	}
	if w != uint32(width) || h != uint32(height) {
		cam.Close()
		return nil, fmt.Errorf("device cannot capture %dx%d, offered %dx%d", width, height, w, h)
	}

	if err := cam.StartStreaming(); err != nil {
		cam.Close()
		return nil, fmt.Errorf("failed to start streaming: %w", err)
	}

	return &v4l2Stream{cam: cam}, nil
}

// mjpegFormat picks the device's Motion-JPEG pixel format so captured
// frames can be written to the container without re-encoding.
func mjpegFormat(cam *webcam.Webcam) (webcam.PixelFormat, error) {
	for format, name := range cam.GetSupportedFormats() {
		if strings.Contains(strings.ToUpper(name), "JPEG") {
			return format, nil
		}
	}
	return 0, fmt.Errorf("device offers no MJPEG pixel format")
}

type v4l2Stream struct {
	cam *webcam.Webcam
}

func (s *v4l2Stream) ReadFrame() ([]byte, error) {
	if err := s.cam.WaitForFrame(frameTimeoutSecs); err != nil {
		return nil, err
	}
	frame, err := s.cam.ReadFrame()
	if err != nil {
		return nil, err
	}
	if len(frame) == 0 {
		return nil, fmt.Errorf("empty frame")
	}
	// The frame buffer is reused by the driver, copy it out.
	out := make([]byte, len(frame))
	copy(out, frame)
	return out, nil
}

func (s *v4l2Stream) Close() error {
	s.cam.StopStreaming()
	return s.cam.Close()
}
