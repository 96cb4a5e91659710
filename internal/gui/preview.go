package gui

import (
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"filter-workshop/internal/pipeline"
)

// PreviewPanel shows the latest completed output and the pipeline status.
type PreviewPanel struct {
	image  *canvas.Image
	status *widget.Label
	box    *fyne.Container
}

func NewPreviewPanel() *PreviewPanel {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleSmooth
	img.SetMinSize(fyne.NewSize(400, 400))

	status := widget.NewLabel("Ready")
	status.Wrapping = fyne.TextWrapWord

	return &PreviewPanel{
		image:  img,
		status: status,
		box:    container.NewBorder(nil, status, nil, nil, img),
	}
}

func (pp *PreviewPanel) GetContainer() fyne.CanvasObject {
	return pp.box
}

func (pp *PreviewPanel) SetStatus(text string) {
	pp.status.SetText(text)
}

func (pp *PreviewPanel) Clear() {
	pp.image.Image = nil
	pp.image.Refresh()
}

// HandleEvent must run on the fyne thread.
func (pp *PreviewPanel) HandleEvent(ev pipeline.Event) {
	if ev.Kind == pipeline.EventCompleted && ev.Image != nil {
		pp.image.Image = ev.Image
		pp.image.Refresh()
	}
	pp.SetStatus(describeEvent(ev))
}

// describeEvent renders a one-line status for ev.
func describeEvent(ev pipeline.Event) string {
	switch ev.Kind {
	case pipeline.EventStarted:
		return fmt.Sprintf("Generating %s…", ev.Filter)
	case pipeline.EventCompleted:
		return fmt.Sprintf("%s done in %d ms", ev.Filter, ev.Elapsed.Milliseconds())
	case pipeline.EventErrored:
		return describeError(ev.Err)
	}
	return ev.Kind.String()
}

func describeError(err error) string {
	if names, ok := pipeline.IsNeedsMoreParameters(err); ok {
		return "Waiting for " + strings.Join(names, ", ")
	}
	switch {
	case errors.Is(err, pipeline.ErrNoFilterSelected):
		return "Choose a filter"
	case errors.Is(err, pipeline.ErrGenerationFailed):
		return fmt.Sprintf("Generation failed: %v", err)
	case pipeline.IsImplementationError(err):
		return fmt.Sprintf("Internal error: %v", err)
	case err == nil:
		return "Error"
	}
	return err.Error()
}
