package maps

import "github.com/paulmach/orb"

// Marker is one rendered point on the map.
type Marker struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Price string    `json:"price,omitempty"`
	At    orb.Point `json:"at"`
}

// Circle is a filled circle decoration inside an overlay.
type Circle struct {
	Center       orb.Point `json:"center"`
	RadiusMeters float64   `json:"radius_meters"`
	Caption      string    `json:"caption"`
}

// Pin is a captioned point decoration inside an overlay.
type Pin struct {
	At      orb.Point `json:"at"`
	Caption string    `json:"caption"`
}

// Overlay is a named group of decorations toggled on and off as a unit,
// independent of the property marker set.
type Overlay struct {
	Name    string   `json:"name"`
	Circles []Circle `json:"circles,omitempty"`
	Pins    []Pin    `json:"pins,omitempty"`
}

// Surface is the rendering collaborator a MapSync pushes imperative calls to.
// A nil surface makes every MapSync operation a no-op.
type Surface interface {
	AddMarker(m Marker)
	RemoveMarker(id string)
	FlyTo(center orb.Point, zoom int)
	ShowOverlay(o Overlay)
	HideOverlay(name string)
}
