package search

import (
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"inmomap/server/internal/catalog"
	"inmomap/server/internal/geocoding"
	"inmomap/server/internal/models"
)

// Kind classifies the outcome of a resolution.
type Kind int

const (
	NoMatch Kind = iota
	LocalMatch
	RemoteMatch
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case LocalMatch:
		return "local"
	case RemoteMatch:
		return "remote"
	default:
		return "none"
	}
}

// Resolution is the result of resolving a free-text query. Property is set
// for LocalMatch; Coordinate and Label are set for both match kinds.
type Resolution struct {
	Kind       Kind
	Property   *models.Property
	Coordinate orb.Point
	Label      string
}

// Geocoder is the remote lookup collaborator.
type Geocoder interface {
	Search(query string) ([]geocoding.Result, error)
}

// Resolver turns a free-text query into a known property or a geocoded
// coordinate. Resolution never fails: remote errors and empty result sets
// both collapse to NoMatch.
type Resolver struct {
	catalog  *catalog.Catalog
	geocoder Geocoder
	logger   *logrus.Logger
}

func NewResolver(cat *catalog.Catalog, geocoder Geocoder, logger *logrus.Logger) *Resolver {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Resolver{
		catalog:  cat,
		geocoder: geocoder,
		logger:   logger,
	}
}

// Resolve tries the local catalog first, then a single remote geocoding
// lookup taking the first returned result. Blank queries short-circuit to
// NoMatch without issuing any lookup.
func (r *Resolver) Resolve(query string) Resolution {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return Resolution{Kind: NoMatch}
	}

	if property, err := r.catalog.SearchByText(trimmed); err == nil {
		return Resolution{
			Kind:       LocalMatch,
			Property:   property,
			Coordinate: property.Coords.Point(),
			Label:      property.Location,
		}
	}

	results, err := r.geocoder.Search(trimmed)
	if err != nil {
		r.logger.WithError(err).WithField("query", trimmed).Warn("Remote lookup failed")
		return Resolution{Kind: NoMatch}
	}
	if len(results) == 0 {
		r.logger.WithField("query", trimmed).Info("No geocoding results")
		return Resolution{Kind: NoMatch}
	}

	first := results[0]
	return Resolution{
		Kind:       RemoteMatch,
		Coordinate: orb.Point{first.Lon, first.Lat},
		Label:      first.DisplayName,
	}
}
