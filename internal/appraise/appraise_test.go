package appraise

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inmomap/server/internal/catalog"
	"inmomap/server/internal/handoff"
	"inmomap/server/internal/models"
)

type stubSource []*models.Property

func (s stubSource) Fetch() ([]*models.Property, error) {
	return s, nil
}

func newTestService(t *testing.T, properties ...*models.Property) *Service {
	t.Helper()

	cat := catalog.New(logrus.New())
	require.NoError(t, cat.Load(stubSource(properties)))

	store, err := handoff.Open(filepath.Join(t.TempDir(), "handoff.db"), logrus.New())
	require.NoError(t, err)

	return NewService(cat, store, logrus.New())
}

func TestViewUsesHandoffWhenPresent(t *testing.T) {
	s := newTestService(t,
		&models.Property{ID: "1", Title: "Casa Linda"},
		&models.Property{ID: "2", Title: "Departamento Moderno"},
	)

	require.NoError(t, s.Select("2"))

	p, err := s.View()
	require.NoError(t, err)
	assert.Equal(t, "2", p.ID)
}

func TestViewFallsBackToFirstProperty(t *testing.T) {
	s := newTestService(t,
		&models.Property{ID: "1", Title: "Casa Linda"},
		&models.Property{ID: "2", Title: "Departamento Moderno"},
	)

	p, err := s.View()
	require.NoError(t, err)
	assert.Equal(t, "1", p.ID)
}

func TestViewEmptyEverything(t *testing.T) {
	s := newTestService(t)

	_, err := s.View()
	assert.ErrorIs(t, err, ErrNoProperty)
}

func TestSelectUnknownProperty(t *testing.T) {
	s := newTestService(t, &models.Property{ID: "1"})

	err := s.Select("999")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}
