//go:build !linux

package camera

import "fmt"

// V4L2Camera is only available on Linux. On other platforms Open fails
// so callers report the camera as unavailable.
type V4L2Camera struct {
	Device string
}

func NewV4L2Camera() *V4L2Camera {
	return &V4L2Camera{}
}

func (c *V4L2Camera) Open(width, height, fps int) (Stream, error) {
	return nil, fmt.Errorf("camera capture is not supported on this platform")
}
