package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"filter-workshop/internal/catalog"
	"filter-workshop/internal/io"
	"filter-workshop/internal/pipeline"
)

// runHeadless applies one filter configuration and writes the result.
func runHeadless(ctx context.Context, logger logrus.FieldLogger, cat *catalog.Catalog, p *pipeline.Pipeline, loader *io.ImageLoader, opts options) error {
	f, ok := cat.Get(opts.filter)
	if !ok {
		return fmt.Errorf("unknown filter %q", opts.filter)
	}
	if avail := cat.Availability(f.Name); !avail.Available {
		return fmt.Errorf("filter %s is not available: %s", f.Name, avail.Reason)
	}

	values, err := opts.values.parse(f)
	if err != nil {
		return err
	}

	if err := p.SelectFilter(f); err != nil {
		return err
	}
	for name, v := range defaults(f) {
		if err := p.SetValue(name, v); err != nil {
			return err
		}
	}
	if opts.input != "" {
		img, err := loader.LoadImage(opts.input)
		if err != nil {
			return err
		}
		for _, name := range imageParameters(f) {
			if err := p.SetValue(name, img); err != nil {
				return err
			}
		}
	}
	for name, v := range values {
		if err := p.SetValue(name, v); err != nil {
			return err
		}
	}

	if err := p.RequestGeneration(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", f.Name, ctx.Err())
		case ev, ok := <-p.Events():
			if !ok {
				return pipeline.ErrClosed
			}
			switch ev.Kind {
			case pipeline.EventStarted:
				logger.WithField("attempt", ev.AttemptID).Debug("Generation started")
			case pipeline.EventErrored:
				if names, ok := pipeline.IsNeedsMoreParameters(ev.Err); ok {
					return fmt.Errorf("filter %s needs more parameters: %v", f.Name, names)
				}
				return ev.Err
			case pipeline.EventCompleted:
				logger.WithFields(logrus.Fields{
					"filter":     f.Name,
					"elapsed_ms": ev.Elapsed.Milliseconds(),
					"output":     opts.output,
				}).Info("Image generated")
				return loader.SaveImage(ev.Image, opts.output)
			}
		}
	}
}
