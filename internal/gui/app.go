// Workshop window: filter list, parameter controls and live preview
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"filter-workshop/internal/catalog"
	"filter-workshop/internal/core"
	"filter-workshop/internal/io"
	"filter-workshop/internal/pipeline"
)

// Application is the interactive front end. It is the edit source and the
// event subscriber of the pipeline.
type Application struct {
	app      fyne.App
	window   fyne.Window
	logger   logrus.FieldLogger
	catalog  *catalog.Catalog
	pipeline *pipeline.Pipeline
	loader   *io.ImageLoader

	// Image used for image-kind parameters. Only touched on the fyne thread.
	input core.Image

	filterList *FilterList
	parameters *ParameterPanel
	preview    *PreviewPanel
}

func NewApplication(app fyne.App, cat *catalog.Catalog, p *pipeline.Pipeline, loader *io.ImageLoader, logger logrus.FieldLogger) *Application {
	window := app.NewWindow("Filter Workshop")
	window.Resize(fyne.NewSize(1400, 900))
	window.CenterOnScreen()

	a := &Application{
		app:      app,
		window:   window,
		logger:   logger.WithField("component", "gui"),
		catalog:  cat,
		pipeline: p,
		loader:   loader,
	}

	a.filterList = NewFilterList(cat, a.SelectFilter)
	a.parameters = NewParameterPanel(p, a.logger)
	a.preview = NewPreviewPanel()
	a.setupLayout()

	go a.consumeEvents()
	return a
}

func (a *Application) setupLayout() {
	openButton := widget.NewButton("Open Image…", a.showOpenDialog)

	left := container.NewBorder(openButton, nil, nil, nil, a.filterList.GetContainer())
	right := container.NewHSplit(
		container.NewVScroll(a.parameters.GetContainer()),
		a.preview.GetContainer(),
	)
	right.SetOffset(0.35)

	main := container.NewHSplit(left, right)
	main.SetOffset(0.22)
	a.window.SetContent(main)
}

// SetInputImage sets the image fed to image-kind parameters.
func (a *Application) SetInputImage(img core.Image) error {
	detached, err := detach(img)
	if err != nil {
		return err
	}
	a.input = detached
	return nil
}

// SelectFilter switches the pipeline to the named filter and rebuilds the
// parameter controls.
func (a *Application) SelectFilter(name string) {
	f, ok := a.catalog.Get(name)
	if !ok {
		a.preview.SetStatus(fmt.Sprintf("Unknown filter %s", name))
		return
	}
	if avail := a.catalog.Availability(name); !avail.Available {
		if err := a.pipeline.Deselect(); err != nil {
			a.showError("Could not deselect filter", err)
			return
		}
		a.parameters.Clear()
		a.preview.Clear()
		a.preview.SetStatus(fmt.Sprintf("%s is not available: %s", name, avail.Reason))
		return
	}

	if err := a.pipeline.SelectFilter(f); err != nil {
		a.showError("Could not select filter", err)
		return
	}
	a.preview.Clear()
	a.preview.SetStatus(fmt.Sprintf("Selected %s", displayName(f)))

	for _, p := range f.Parameters {
		var value interface{}
		switch {
		case p.Kind == catalog.KindImage && a.input != nil:
			value = a.input
		case p.Default != nil:
			value = p.Default
		default:
			continue
		}
		if err := a.pipeline.SetValue(p.Name, value); err != nil {
			a.showError("Could not set parameter", err)
			return
		}
	}
	if err := a.parameters.Build(f); err != nil {
		a.showError("Could not build parameter controls", err)
		return
	}
	if err := a.pipeline.RequestGeneration(); err != nil {
		a.showError("Could not request generation", err)
	}
}

// consumeEvents forwards pipeline events to the UI thread until the event
// stream closes.
func (a *Application) consumeEvents() {
	for ev := range a.pipeline.Events() {
		fyne.Do(func() {
			a.preview.HandleEvent(ev)
		})
	}
}

func (a *Application) showOpenDialog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.showError("Could not open image", err)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		img, err := a.loader.LoadImage(path)
		if err != nil {
			a.showError("Could not load image", err)
			return
		}
		if err := a.SetInputImage(img); err != nil {
			a.showError("Could not load image", err)
			return
		}
		if current, ok := a.pipeline.CurrentFilter(); ok {
			a.SelectFilter(current.Name)
		}
	}, a.window)
}

func (a *Application) ShowAndRun() {
	a.logger.Info("Showing workshop window")

	a.window.SetCloseIntercept(func() {
		a.logger.Info("Cleaning up application resources")
		a.parameters.Clear()
		a.app.Quit()
	})

	a.window.ShowAndRun()
}

func (a *Application) showError(title string, err error) {
	a.logger.WithError(err).Error(title)
	dialog.ShowError(err, a.window)
	a.preview.SetStatus(fmt.Sprintf("%s: %v", title, err))
}

func displayName(f catalog.Filter) string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Name
}
