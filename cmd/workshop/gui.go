package main

import (
	"fmt"

	"fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"

	"filter-workshop/internal/catalog"
	"filter-workshop/internal/gui"
	"filter-workshop/internal/io"
	"filter-workshop/internal/pipeline"
)

// runGUI blocks until the window is closed.
func runGUI(logger *logrus.Logger, cat *catalog.Catalog, p *pipeline.Pipeline, loader *io.ImageLoader, opts options) error {
	fyneApp := app.NewWithID(AppID)
	application := gui.NewApplication(fyneApp, cat, p, loader, logger)

	if opts.input != "" {
		img, err := loader.LoadImage(opts.input)
		if err != nil {
			return fmt.Errorf("loading input image: %w", err)
		}
		if err := application.SetInputImage(img); err != nil {
			return err
		}
	}

	if opts.filter != "" {
		f, ok := cat.Get(opts.filter)
		if !ok {
			return fmt.Errorf("unknown filter %q", opts.filter)
		}
		values, err := opts.values.parse(f)
		if err != nil {
			return err
		}
		application.SelectFilter(f.Name)
		for name, v := range values {
			if err := p.SetValue(name, v); err != nil {
				return err
			}
		}
		if len(values) > 0 {
			if err := p.RequestGeneration(); err != nil {
				return err
			}
		}
	}

	application.ShowAndRun()
	return nil
}
