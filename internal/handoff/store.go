package handoff

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"inmomap/server/internal/models"
)

var ErrEmpty = errors.New("no handoff record")

const selectedPropertyKey = "selected_property"

// record is a single keyed payload row.
type record struct {
	Key       string `gorm:"primaryKey"`
	Payload   string
	UpdatedAt time.Time
}

func (record) TableName() string {
	return "handoff"
}

// Store is the one-shot page-to-page handoff: one page writes the selected
// property, the appraisal page reads it back. Only the latest write per key
// is kept.
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func Open(dbPath string, logger *logrus.Logger) (*Store, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open handoff database: %v", err)
	}

	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate handoff schema: %v", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Put stores the property as the current handoff payload, replacing any
// previous one.
func (s *Store) Put(p *models.Property) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize property: %v", err)
	}

	rec := record{Key: selectedPropertyKey, Payload: string(payload)}
	if err := s.db.Save(&rec).Error; err != nil {
		return fmt.Errorf("failed to store handoff record: %v", err)
	}

	s.logger.WithField("property_id", p.ID).Debug("Stored handoff property")
	return nil
}

// Get returns the handed-off property. ErrEmpty is a normal miss, not a
// failure.
func (s *Store) Get() (*models.Property, error) {
	var rec record
	err := s.db.First(&rec, "key = ?", selectedPropertyKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read handoff record: %v", err)
	}

	var p models.Property
	if err := json.Unmarshal([]byte(rec.Payload), &p); err != nil {
		return nil, fmt.Errorf("failed to parse handoff payload: %v", err)
	}
	return &p, nil
}

// Clear drops the current handoff payload if any.
func (s *Store) Clear() error {
	return s.db.Delete(&record{}, "key = ?", selectedPropertyKey).Error
}
