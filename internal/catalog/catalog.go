package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"inmomap/server/internal/models"
)

var ErrNotFound = errors.New("property not found")

// Source produces the property collection for a session.
type Source interface {
	Fetch() ([]*models.Property, error)
}

// Catalog holds the immutable-per-session list of properties. A failed load
// leaves the catalog empty; lookups and filters work off whatever loaded.
type Catalog struct {
	logger     *logrus.Logger
	properties []*models.Property
}

func New(logger *logrus.Logger) *Catalog {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Catalog{logger: logger}
}

// Load fetches the property collection from the source. On failure the
// catalog remains empty and the error is returned for logging, not retried.
func (c *Catalog) Load(source Source) error {
	properties, err := source.Fetch()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	c.properties = properties
	c.logger.WithField("count", len(properties)).Info("Loaded property catalog")
	return nil
}

// All returns every property in document order.
func (c *Catalog) All() []*models.Property {
	return c.properties
}

func (c *Catalog) Len() int {
	return len(c.properties)
}

// FindByID does a linear scan; the catalog is small enough that no index is
// warranted.
func (c *Catalog) FindByID(id string) (*models.Property, error) {
	for _, p := range c.properties {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

// Filter returns the properties matching all non-empty filter fields. An
// empty field matches everything, so Filter("", "") is the full catalog.
func (c *Catalog) Filter(propertyType, contract string) []*models.Property {
	matched := make([]*models.Property, 0, len(c.properties))
	for _, p := range c.properties {
		matchesType := propertyType == "" || p.Type == propertyType
		matchesContract := contract == "" || p.Contract == contract
		if matchesType && matchesContract {
			matched = append(matched, p)
		}
	}
	return matched
}

// SearchByText finds the first property whose location or title contains the
// query, case-insensitively. No ranking; document order wins.
func (c *Catalog) SearchByText(query string) (*models.Property, error) {
	needle := strings.ToLower(query)
	for _, p := range c.properties {
		if strings.Contains(strings.ToLower(p.Location), needle) ||
			strings.Contains(strings.ToLower(p.Title), needle) {
			return p, nil
		}
	}
	return nil, ErrNotFound
}
