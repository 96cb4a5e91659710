package gui

import (
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"filter-workshop/internal/catalog"
)

// FilterList shows every catalog filter grouped by category; unavailable
// ones are marked.
type FilterList struct {
	names    []string
	labels   []string
	list     *widget.List
	onSelect func(name string)
}

func NewFilterList(cat *catalog.Catalog, onSelect func(name string)) *FilterList {
	fl := &FilterList{onSelect: onSelect}
	fl.names, fl.labels = filterEntries(cat)

	fl.list = widget.NewList(
		func() int { return len(fl.names) },
		func() fyne.CanvasObject { return widget.NewLabel("filter") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(fl.labels[id])
		},
	)
	fl.list.OnSelected = func(id widget.ListItemID) {
		if fl.onSelect != nil {
			fl.onSelect(fl.names[id])
		}
	}
	return fl
}

// filterEntries orders filters by category, then name.
func filterEntries(cat *catalog.Catalog) (names, labels []string) {
	groups := cat.ByCategory()
	categories := make([]string, 0, len(groups))
	for category := range groups {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		for _, name := range groups[category] {
			label := name
			if f, ok := cat.Get(name); ok && f.DisplayName != "" {
				label = f.DisplayName
			}
			label = category + ": " + label
			if !cat.Availability(name).Available {
				label += " (unavailable)"
			}
			names = append(names, name)
			labels = append(labels, label)
		}
	}
	return names, labels
}

// Select highlights the named filter, which triggers the select callback.
func (fl *FilterList) Select(name string) {
	for i, n := range fl.names {
		if n == name {
			fl.list.Select(i)
			return
		}
	}
}

func (fl *FilterList) GetContainer() fyne.CanvasObject {
	return fl.list
}
