package maps

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"inmomap/server/internal/models"
)

var ErrUnknownOverlay = errors.New("unknown overlay")

// MapSync owns the rendered marker set and the overlay groups, keeping them
// in step with the property list it is given. All operations no-op when the
// surface is nil.
type MapSync struct {
	surface Surface
	logger  *logrus.Logger

	transientTTL time.Duration

	mu       sync.Mutex
	rendered map[string]*models.Property
	overlays map[string]Overlay
	visible  map[string]bool
	timers   map[string]*time.Timer
	seq      int
	closed   bool
	onSelect func(*models.Property)
}

func NewMapSync(surface Surface, transientTTL time.Duration, logger *logrus.Logger) *MapSync {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &MapSync{
		surface:      surface,
		logger:       logger,
		transientTTL: transientTTL,
		rendered:     make(map[string]*models.Property),
		overlays:     make(map[string]Overlay),
		visible:      make(map[string]bool),
		timers:       make(map[string]*time.Timer),
	}
}

// OnSelect registers the callback invoked when a rendered marker is selected.
func (m *MapSync) OnSelect(fn func(*models.Property)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSelect = fn
}

// Render reconciles the rendered marker set against the given properties:
// every previously-owned marker is cleared and one marker is created per
// input property. After the call the marker set is in exact 1:1
// correspondence with the input. Transient search markers are not owned by
// the reconciliation and survive it.
func (m *MapSync) Render(properties []*models.Property) {
	if m.surface == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for id := range m.rendered {
		m.surface.RemoveMarker(id)
		delete(m.rendered, id)
	}

	for _, p := range properties {
		m.surface.AddMarker(Marker{
			ID:    p.ID,
			Title: p.Title,
			Price: p.Price,
			At:    p.Coords.Point(),
		})
		m.rendered[p.ID] = p
	}

	m.logger.WithField("markers", len(properties)).Debug("Reconciled map markers")
}

// Select reports a click on the marker for the given property id, invoking
// the selection callback. Unrendered ids are ignored.
func (m *MapSync) Select(id string) bool {
	if m.surface == nil {
		return false
	}

	m.mu.Lock()
	property, ok := m.rendered[id]
	callback := m.onSelect
	m.mu.Unlock()

	if !ok {
		return false
	}
	if callback != nil {
		callback(property)
	}
	return true
}

// Focus recenters the view and drops a transient captioned marker that
// removes itself after the configured delay. Each Focus schedules its own
// removal; Close cancels any still pending.
func (m *MapSync) Focus(center orb.Point, zoom int, caption string) {
	if m.surface == nil {
		return
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}

	m.seq++
	id := fmt.Sprintf("search-%d", m.seq)

	m.surface.FlyTo(center, zoom)
	m.surface.AddMarker(Marker{ID: id, Title: caption, At: center})

	m.timers[id] = time.AfterFunc(m.transientTTL, func() {
		m.expireTransient(id)
	})
	m.mu.Unlock()

	m.logger.WithFields(logrus.Fields{
		"caption": caption,
		"zoom":    zoom,
	}).Debug("Focused map view")
}

func (m *MapSync) expireTransient(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// The timer may fire after teardown; the surface handle is gone then.
	if m.closed {
		return
	}
	if _, ok := m.timers[id]; !ok {
		return
	}
	delete(m.timers, id)
	m.surface.RemoveMarker(id)
}

// InitOverlays installs the overlay groups, replacing any previous set. All
// overlays start hidden.
func (m *MapSync) InitOverlays(overlays []Overlay) {
	if m.surface == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for name, wasVisible := range m.visible {
		if wasVisible {
			m.surface.HideOverlay(name)
		}
	}

	m.overlays = make(map[string]Overlay, len(overlays))
	m.visible = make(map[string]bool, len(overlays))
	for _, o := range overlays {
		m.overlays[o.Name] = o
		m.visible[o.Name] = false
	}
}

// ToggleOverlay shows the named overlay if hidden and hides it if shown,
// returning whether it is now visible.
func (m *MapSync) ToggleOverlay(name string) (bool, error) {
	if m.surface == nil {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	overlay, ok := m.overlays[name]
	if !ok {
		return false, ErrUnknownOverlay
	}

	if m.visible[name] {
		m.surface.HideOverlay(name)
		m.visible[name] = false
		return false, nil
	}

	m.surface.ShowOverlay(overlay)
	m.visible[name] = true
	return true, nil
}

// Close cancels every pending transient-marker removal. Further operations
// that schedule work become no-ops.
func (m *MapSync) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	for id, timer := range m.timers {
		timer.Stop()
		delete(m.timers, id)
	}
}
