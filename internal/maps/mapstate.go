package maps

import (
	"sync"

	"github.com/paulmach/orb"
)

// Snapshot is the current view of the map as served to clients.
type Snapshot struct {
	Center   orb.Point `json:"center"`
	Zoom     int       `json:"zoom"`
	Markers  []Marker  `json:"markers"`
	Overlays []Overlay `json:"overlays"`
}

// MapState is the server-side Surface implementation: it keeps the rendered
// marker and overlay sets in memory so the API can serve them as JSON.
type MapState struct {
	mu       sync.RWMutex
	center   orb.Point
	zoom     int
	markers  []Marker
	overlays []Overlay
}

func NewMapState(center orb.Point, zoom int) *MapState {
	return &MapState{center: center, zoom: zoom}
}

func (s *MapState) AddMarker(m Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = append(s.markers, m)
}

func (s *MapState) RemoveMarker(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.markers {
		if m.ID == id {
			s.markers = append(s.markers[:i], s.markers[i+1:]...)
			return
		}
	}
}

func (s *MapState) FlyTo(center orb.Point, zoom int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.center = center
	s.zoom = zoom
}

func (s *MapState) ShowOverlay(o Overlay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.overlays {
		if existing.Name == o.Name {
			return
		}
	}
	s.overlays = append(s.overlays, o)
}

func (s *MapState) HideOverlay(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.overlays {
		if o.Name == name {
			s.overlays = append(s.overlays[:i], s.overlays[i+1:]...)
			return
		}
	}
}

// Snapshot returns a copy of the current map view.
func (s *MapState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Center:   s.center,
		Zoom:     s.zoom,
		Markers:  make([]Marker, len(s.markers)),
		Overlays: make([]Overlay, len(s.overlays)),
	}
	copy(snap.Markers, s.markers)
	copy(snap.Overlays, s.overlays)
	return snap
}
