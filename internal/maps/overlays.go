package maps

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"inmomap/server/internal/models"
)

const (
	OverlayTraffic  = "traffic"
	OverlayShopping = "shopping"
	OverlaySecurity = "security"
)

// trafficRadiusMeters is the radius of the high-traffic circle drawn around
// each property.
const trafficRadiusMeters = 300

// BuildOverlays derives the three overlay groups from the full unfiltered
// catalog. Overlays are computed once at initial load and only toggled
// afterwards, so active filters never affect their contents.
func BuildOverlays(properties []*models.Property) []Overlay {
	traffic := Overlay{Name: OverlayTraffic}
	for _, p := range properties {
		traffic.Circles = append(traffic.Circles, Circle{
			Center:       p.Coords.Point(),
			RadiusMeters: trafficRadiusMeters,
			Caption:      fmt.Sprintf("High Traffic Area near %s", p.Title),
		})
	}

	shopping := Overlay{Name: OverlayShopping}
	security := Overlay{Name: OverlaySecurity}

	if len(properties) > 0 {
		center := catalogCenter(properties)

		shopping.Pins = []Pin{
			decorationPin(properties, center, -0.014, 0.003, "Shopping Center 1"),
			decorationPin(properties, center, -0.034, 0.023, "Shopping Center 2"),
		}
		security.Pins = []Pin{
			decorationPin(properties, center, -0.024, 0.013, "Security Camera Zone"),
			decorationPin(properties, center, -0.044, -0.007, "Security Patrol Zone"),
		}
	}

	return []Overlay{traffic, shopping, security}
}

// catalogCenter is the center of the bounding box around every property.
func catalogCenter(properties []*models.Property) orb.Point {
	points := make(orb.MultiPoint, len(properties))
	for i, p := range properties {
		points[i] = p.Coords.Point()
	}
	return points.Bound().Center()
}

// decorationPin places a decoration at a fixed offset from the catalog center
// and captions it with the closest property's location.
func decorationPin(properties []*models.Property, center orb.Point, latOffset, lonOffset float64, label string) Pin {
	at := orb.Point{center[0] + lonOffset, center[1] + latOffset}
	return Pin{
		At:      at,
		Caption: fmt.Sprintf("%s (near %s)", label, nearestLocation(properties, at)),
	}
}

func nearestLocation(properties []*models.Property, at orb.Point) string {
	nearest := properties[0]
	best := geo.Distance(at, nearest.Coords.Point())
	for _, p := range properties[1:] {
		if d := geo.Distance(at, p.Coords.Point()); d < best {
			best = d
			nearest = p
		}
	}
	return nearest.Location
}
