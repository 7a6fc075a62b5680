package models

import "github.com/paulmach/orb"

// Coordinate is a [latitude, longitude] pair as stored in the catalog document.
type Coordinate [2]float64

func (c Coordinate) Lat() float64 { return c[0] }
func (c Coordinate) Lon() float64 { return c[1] }

// Point returns the coordinate in orb's lon/lat order.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c[1], c[0]}
}

// Property is a single catalog listing. Properties are immutable once loaded;
// other components hold references into the catalog, never diverging copies.
type Property struct {
	ID          string     `json:"id"`
	Title       string     `json:"titulo"`
	Price       string     `json:"precio"`
	Location    string     `json:"ubicacion"`
	Type        string     `json:"tipo"`
	Contract    string     `json:"contrato"`
	Description string     `json:"descripcion"`
	Image       string     `json:"imagen"`
	Coords      Coordinate `json:"coords"`
}
