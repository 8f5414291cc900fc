package screen

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// PrimaryDisplay captures the full framebuffer of the first active
// display.
type PrimaryDisplay struct{}

func NewPrimaryDisplay() *PrimaryDisplay {
	return &PrimaryDisplay{}
}

func (d *PrimaryDisplay) Capture() (image.Image, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return nil, fmt.Errorf("no active displays")
	}
	img, err := screenshot.CaptureDisplay(0)
	if err != nil {
		return nil, fmt.Errorf("failed to capture display: %w", err)
	}
	return img, nil
}
