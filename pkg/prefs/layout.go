package prefs

import (
	"github.com/sirupsen/logrus"

	"github.com/klondike-tools/dash/pkg/store"
)

// WidgetType identifies one of the known dashboard widget kinds.
type WidgetType string

const (
	WidgetStatus   WidgetType = "status"
	WidgetKanban   WidgetType = "kanban"
	WidgetTable    WidgetType = "table"
	WidgetActivity WidgetType = "activity"
	WidgetPresence WidgetType = "presence"
	WidgetSession  WidgetType = "session"
)

// WidgetSize controls how much room a widget takes in the dashboard grid.
type WidgetSize string

const (
	SizeSmall  WidgetSize = "small"
	SizeMedium WidgetSize = "medium"
	SizeLarge  WidgetSize = "large"
	SizeFull   WidgetSize = "full"
)

// Widget is one persisted dashboard widget configuration.
type Widget struct {
	ID      string     `json:"id"`
	Type    WidgetType `json:"type"`
	Title   string     `json:"title"`
	Visible bool       `json:"visible"`
	Size    WidgetSize `json:"size"`
	Order   int        `json:"order"`
}

// DefaultLayout returns the stock widget arrangement.
func DefaultLayout() []Widget {
	return []Widget{
		{ID: "status", Type: WidgetStatus, Title: "Status", Visible: true, Size: SizeMedium, Order: 0},
		{ID: "session", Type: WidgetSession, Title: "Session", Visible: true, Size: SizeSmall, Order: 1},
		{ID: "kanban", Type: WidgetKanban, Title: "Board", Visible: true, Size: SizeFull, Order: 2},
		{ID: "activity", Type: WidgetActivity, Title: "Activity", Visible: true, Size: SizeMedium, Order: 3},
		{ID: "presence", Type: WidgetPresence, Title: "Who's here", Visible: true, Size: SizeSmall, Order: 4},
		{ID: "table", Type: WidgetTable, Title: "Features", Visible: false, Size: SizeFull, Order: 5},
	}
}

// LayoutManager holds the widget layout store. Every mutation renumbers
// Order densely from the display sequence, persists the result, then
// notifies subscribers. A failed persist is logged, never surfaced.
type LayoutManager struct {
	store   *store.Store[[]Widget]
	storage *Storage
	logger  *logrus.Entry
}

// NewLayoutManager loads the persisted layout (or the default) into a new
// manager.
func NewLayoutManager(storage *Storage, logger *logrus.Entry) *LayoutManager {
	var widgets []Widget
	found, err := storage.Load(KeyLayout, &widgets)
	if err != nil {
		logger.WithError(err).Warn("Failed to load widget layout, using defaults")
	}
	if !found || len(widgets) == 0 {
		widgets = DefaultLayout()
	}
	renumber(widgets)
	return &LayoutManager{
		store:   store.New(widgets),
		storage: storage,
		logger:  logger,
	}
}

// Current returns the current layout in display order.
func (m *LayoutManager) Current() []Widget {
	cur := m.store.Get()
	out := make([]Widget, len(cur))
	copy(out, cur)
	return out
}

// Subscribe registers a listener for layout changes.
func (m *LayoutManager) Subscribe(fn func([]Widget)) func() {
	return m.store.Subscribe(fn)
}

// ToggleVisibility flips a widget's visibility.
func (m *LayoutManager) ToggleVisibility(widgetID string) {
	m.mutate(func(widgets []Widget) []Widget {
		for i := range widgets {
			if widgets[i].ID == widgetID {
				widgets[i].Visible = !widgets[i].Visible
				break
			}
		}
		return widgets
	})
}

// SetSize changes a widget's size.
func (m *LayoutManager) SetSize(widgetID string, size WidgetSize) {
	m.mutate(func(widgets []Widget) []Widget {
		for i := range widgets {
			if widgets[i].ID == widgetID {
				widgets[i].Size = size
				break
			}
		}
		return widgets
	})
}

// Reorder moves a widget to a new position in the display sequence.
// Out-of-range indexes clamp to the ends.
func (m *LayoutManager) Reorder(widgetID string, newIndex int) {
	m.mutate(func(widgets []Widget) []Widget {
		from := -1
		for i := range widgets {
			if widgets[i].ID == widgetID {
				from = i
				break
			}
		}
		if from == -1 {
			return widgets
		}
		if newIndex < 0 {
			newIndex = 0
		}
		if newIndex >= len(widgets) {
			newIndex = len(widgets) - 1
		}
		w := widgets[from]
		widgets = append(widgets[:from], widgets[from+1:]...)
		widgets = append(widgets[:newIndex], append([]Widget{w}, widgets[newIndex:]...)...)
		return widgets
	})
}

// ResetToDefaults restores the stock layout.
func (m *LayoutManager) ResetToDefaults() {
	m.mutate(func([]Widget) []Widget {
		return DefaultLayout()
	})
}

// Reload replaces the in-memory layout from storage. Used by the prefs
// watcher when another process rewrites the file.
func (m *LayoutManager) Reload() {
	var widgets []Widget
	found, err := m.storage.Load(KeyLayout, &widgets)
	if err != nil {
		m.logger.WithError(err).Warn("Failed to reload widget layout")
		return
	}
	if !found || len(widgets) == 0 {
		widgets = DefaultLayout()
	}
	renumber(widgets)
	m.store.Set(widgets)
}

func (m *LayoutManager) mutate(producer func([]Widget) []Widget) {
	cur := m.store.Get()
	next := make([]Widget, len(cur))
	copy(next, cur)
	next = producer(next)
	renumber(next)
	if err := m.storage.Save(KeyLayout, next); err != nil {
		m.logger.WithError(err).Warn("Failed to persist widget layout")
	}
	m.store.Set(next)
}

// renumber assigns dense zero-based Order values matching the slice
// sequence. No gaps, no duplicates.
func renumber(widgets []Widget) {
	for i := range widgets {
		widgets[i].Order = i
	}
}
