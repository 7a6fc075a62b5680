package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"inmomap/server/internal/models"
)

// DocumentSource reads the properties document from a local path or an HTTP
// URL. The document is an ordered JSON array of property records.
type DocumentSource struct {
	location string
	client   *http.Client
}

func NewDocumentSource(location string) *DocumentSource {
	return &DocumentSource{
		location: location,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *DocumentSource) Fetch() ([]*models.Property, error) {
	data, err := s.read()
	if err != nil {
		return nil, err
	}

	var properties []*models.Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, fmt.Errorf("failed to parse properties document: %v", err)
	}

	return properties, nil
}

func (s *DocumentSource) read() ([]byte, error) {
	if strings.HasPrefix(s.location, "http://") || strings.HasPrefix(s.location, "https://") {
		resp, err := s.client.Get(s.location)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch properties document: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("properties document returned status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}

	data, err := os.ReadFile(s.location)
	if err != nil {
		return nil, fmt.Errorf("failed to read properties document: %v", err)
	}
	return data, nil
}
