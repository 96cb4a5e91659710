package gui

import (
	"fmt"
	"io"

	"filter-workshop/internal/core"
)

// detach copies img into Go memory and releases the original. Attempts
// snapshot the input image and may outlive a swap, so the GUI never hands
// the pipeline an image whose native memory it might free.
func detach(img core.Image) (core.Image, error) {
	if _, ok := img.(io.Closer); !ok {
		return img, nil
	}
	defer img.(io.Closer).Close()

	rendered, err := img.Render()
	if err != nil {
		return nil, fmt.Errorf("copying input image: %w", err)
	}
	return core.FromImage(rendered), nil
}
