package screen

import "image"

// Display captures a single frame of a display's framebuffer.
type Display interface {
	Capture() (image.Image, error)
}
