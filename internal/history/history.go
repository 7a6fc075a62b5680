package history

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"inmomap/server/internal/models"
)

// Store is the ordered, deduplicated list of visited properties,
// most-recently-visited last. Properties live in the catalog; the store only
// holds references.
type Store struct {
	logger *logrus.Logger

	mu       sync.Mutex
	entries  []*models.Property
	onChange func([]*models.Property)
}

func NewStore(logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Store{logger: logger}
}

// OnChange registers the panel re-render callback. It receives a full
// snapshot after every mutation; no incremental diffing is guaranteed.
func (s *Store) OnChange(fn func([]*models.Property)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Visit records a selection. If the property is already present its old
// entry is removed first, so a re-visit moves it to the end without
// duplicating it. This is the only state transition besides Remove.
func (s *Store) Visit(p *models.Property) {
	s.mu.Lock()
	for i, entry := range s.entries {
		if entry.ID == p.ID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	s.entries = append(s.entries, p)
	s.logger.WithField("property_id", p.ID).Debug("Added property to history")
	s.notifyLocked()
}

// Remove deletes the entry for the given id, reporting whether it was
// present. Removing an absent id is a no-op.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	for i, entry := range s.entries {
		if entry.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.notifyLocked()
			return true
		}
	}
	s.mu.Unlock()
	return false
}

// List returns the retained entries, oldest-visited first.
func (s *Store) List() []*models.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) snapshot() []*models.Property {
	entries := make([]*models.Property, len(s.entries))
	copy(entries, s.entries)
	return entries
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
