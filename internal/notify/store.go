package notify

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"inmomap/server/internal/models"
)

const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// unknownPropertyName is shown when the target property is missing from the
// catalog at creation time.
const unknownPropertyName = "Unknown Property"

// PropertyLookup resolves a property id against the catalog. Misses are
// normal: alerts hold weak references and must tolerate a vanished property.
type PropertyLookup func(id string) (*models.Property, error)

// Store holds the user-created alerts in insertion order. Confirmation of
// edits and deletes belongs to the caller; the store mutates unconditionally
// once called.
type Store struct {
	logger *logrus.Logger
	lookup PropertyLookup
	newID  func() string

	mu       sync.Mutex
	items    []*models.Notification
	onChange func([]*models.Notification)
}

func NewStore(lookup PropertyLookup, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Store{
		logger: logger,
		lookup: lookup,
		newID:  uuid.NewString,
	}
}

// LoadDocument seeds the store from the notifications document. On failure
// the store stays empty and the error is returned for logging.
func (s *Store) LoadDocument(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read notifications document: %v", err)
	}

	var items []*models.Notification
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to parse notifications document: %v", err)
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.logger.WithField("count", len(items)).Info("Loaded notifications document")
	return nil
}

// OnChange registers the panel re-render callback, invoked with a full
// snapshot after every mutation.
func (s *Store) OnChange(fn func([]*models.Notification)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Create generates a fresh alert for the given property. The property's
// display name is captured now and not kept in sync with later catalog
// changes.
func (s *Store) Create(propertyID, name, frequency string) *models.Notification {
	propertyName := unknownPropertyName
	if property, err := s.lookup(propertyID); err == nil {
		propertyName = property.Title
	}

	notification := &models.Notification{
		ID:           s.newID(),
		Name:         name,
		PropertyID:   propertyID,
		Frequency:    frequency,
		PropertyName: propertyName,
	}

	s.mu.Lock()
	s.items = append(s.items, notification)
	s.logger.WithFields(logrus.Fields{
		"notification_id": notification.ID,
		"property_id":     propertyID,
	}).Info("Created alert")
	s.notifyLocked()

	return notification
}

// Edit changes the frequency of the alert in place, reporting whether it was
// found. An unknown id is a silent no-op.
func (s *Store) Edit(id, newFrequency string) bool {
	s.mu.Lock()
	for _, item := range s.items {
		if item.ID == id {
			item.Frequency = newFrequency
			s.notifyLocked()
			return true
		}
	}
	s.mu.Unlock()
	return false
}

// Delete removes the alert if present.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.notifyLocked()
			return true
		}
	}
	s.mu.Unlock()
	return false
}

// List returns the alerts in insertion order.
func (s *Store) List() []*models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() []*models.Notification {
	items := make([]*models.Notification, len(s.items))
	copy(items, s.items)
	return items
}

// notifyLocked releases the lock and fires the re-render callback with a
// fresh snapshot. Callers must hold the lock.
func (s *Store) notifyLocked() {
	callback := s.onChange
	snapshot := s.snapshot()
	s.mu.Unlock()

	if callback != nil {
		callback(snapshot)
	}
}
