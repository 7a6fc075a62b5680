package appraise

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"

	"inmomap/server/internal/catalog"
	"inmomap/server/internal/handoff"
	"inmomap/server/internal/models"
)

var ErrNoProperty = errors.New("no property to appraise")

// Service prepares the appraisal view. The shown property is the one handed
// off from the map page when present, else the first property in the catalog.
type Service struct {
	catalog *catalog.Catalog
	handoff *handoff.Store
	logger  *logrus.Logger
}

func NewService(cat *catalog.Catalog, store *handoff.Store, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Service{
		catalog: cat,
		handoff: store,
		logger:  logger,
	}
}

// Select hands a catalog property off to the appraisal view.
func (s *Service) Select(propertyID string) error {
	property, err := s.catalog.FindByID(propertyID)
	if err != nil {
		return err
	}
	return s.handoff.Put(property)
}

// View returns the property to display on the appraisal page.
func (s *Service) View() (*models.Property, error) {
	property, err := s.handoff.Get()
	if err == nil {
		return property, nil
	}
	if !errors.Is(err, handoff.ErrEmpty) {
		s.logger.WithError(err).Warn("Failed to read handoff, falling back to catalog")
	}

	if first := s.catalog.All(); len(first) > 0 {
		return first[0], nil
	}
	return nil, ErrNoProperty
}
