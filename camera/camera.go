package camera

// Camera opens exclusive frame streams against a video capture device.
type Camera interface {
	// Open claims the device and negotiates the requested geometry. The
	// fps value is a target; real devices pace frame reads at their own
	// rate. Open fails if the device cannot deliver the exact geometry.
	Open(width, height, fps int) (Stream, error)
}

// Stream delivers JPEG-encoded frames from an open device.
type Stream interface {
	// ReadFrame blocks until the next frame is available.
	ReadFrame() ([]byte, error)

	// Close stops streaming and releases the device.
	Close() error
}
