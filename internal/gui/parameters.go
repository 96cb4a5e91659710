package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"filter-workshop/internal/catalog"
	"filter-workshop/internal/pipeline"
)

const sourceBuffer = 16

// ParameterPanel builds one control per parameter. Every control owns an
// edit source feeding the pipeline.
type ParameterPanel struct {
	pipeline *pipeline.Pipeline
	logger   logrus.FieldLogger

	vbox    *fyne.Container
	sources []chan pipeline.ParameterValue
}

func NewParameterPanel(p *pipeline.Pipeline, logger logrus.FieldLogger) *ParameterPanel {
	return &ParameterPanel{
		pipeline: p,
		logger:   logger,
		vbox:     container.NewVBox(widget.NewLabel("Choose a filter")),
	}
}

func (pp *ParameterPanel) GetContainer() fyne.CanvasObject {
	return pp.vbox
}

// Clear removes the controls and closes their edit sources.
func (pp *ParameterPanel) Clear() {
	for _, src := range pp.sources {
		close(src)
	}
	pp.sources = nil
	pp.vbox.RemoveAll()
}

// Build replaces the controls with those for f.
func (pp *ParameterPanel) Build(f catalog.Filter) error {
	pp.Clear()
	pp.vbox.Add(widget.NewLabelWithStyle(displayName(f), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	if f.Description != "" {
		desc := widget.NewLabel(f.Description)
		desc.Wrapping = fyne.TextWrapWord
		pp.vbox.Add(desc)
	}

	for _, param := range f.Parameters {
		title := param.Name
		if param.Required {
			title += " *"
		}
		pp.vbox.Add(widget.NewLabel(title))

		if param.Kind == catalog.KindImage {
			pp.vbox.Add(widget.NewLabel("Uses the opened image"))
			continue
		}

		src := make(chan pipeline.ParameterValue, sourceBuffer)
		if _, err := pp.pipeline.AddSubscription(src); err != nil {
			close(src)
			return fmt.Errorf("subscribing to %s: %w", param.Name, err)
		}
		pp.sources = append(pp.sources, src)

		pp.vbox.Add(pp.control(param, src))
	}
	pp.vbox.Refresh()
	return nil
}

func (pp *ParameterPanel) control(param catalog.Parameter, src chan pipeline.ParameterValue) fyne.CanvasObject {
	emit := func(v interface{}) {
		push(src, pipeline.ParameterValue{Name: param.Name, Value: v})
	}

	switch param.Kind {
	case catalog.KindNumber:
		if param.Min != nil && param.Max != nil {
			return numberSlider(param, emit)
		}
	case catalog.KindBoolean:
		check := widget.NewCheck("", func(on bool) { emit(on) })
		if b, ok := param.Default.(bool); ok {
			check.SetChecked(b)
		}
		return check
	}

	entry := widget.NewEntry()
	entry.SetText(catalog.FormatValue(param.Default))
	entry.OnChanged = func(text string) {
		v, err := catalog.ParseValue(param, text)
		if err != nil {
			pp.logger.WithError(err).Debug("Ignoring invalid parameter text")
			return
		}
		emit(v)
	}
	return entry
}

func numberSlider(param catalog.Parameter, emit func(interface{})) fyne.CanvasObject {
	slider := widget.NewSlider(*param.Min, *param.Max)
	slider.Step = (*param.Max - *param.Min) / 100
	if v, ok := param.Default.(float64); ok {
		slider.Value = v
	}
	value := widget.NewLabel(catalog.FormatValue(slider.Value))
	slider.OnChanged = func(v float64) {
		value.SetText(fmt.Sprintf("%.3g", v))
		emit(v)
	}
	return container.NewBorder(nil, nil, nil, value, slider)
}

// push delivers v, dropping the oldest queued edit when the source is full.
// The debouncer only keeps the latest value anyway.
func push(src chan pipeline.ParameterValue, v pipeline.ParameterValue) {
	for {
		select {
		case src <- v:
			return
		default:
		}
		select {
		case <-src:
		default:
		}
	}
}
