package geocoding

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Result is one geocoded candidate for a free-text query.
type Result struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

type Geocoder struct {
	logger    *logrus.Logger
	baseURL   string
	cacheDir  string
	cache     map[string][]Result
	cacheLock sync.RWMutex
	client    *http.Client
	delay     time.Duration
}

func NewGeocoder(logger *logrus.Logger, baseURL, cacheDir string) *Geocoder {
	// Create cache directory if it doesn't exist
	os.MkdirAll(cacheDir, 0755)

	g := &Geocoder{
		logger:   logger,
		baseURL:  baseURL,
		cacheDir: cacheDir,
		cache:    make(map[string][]Result),
		client:   &http.Client{Timeout: 10 * time.Second},
		delay:    time.Second,
	}

	// Load cache from file
	g.loadCache()

	return g
}

func (g *Geocoder) loadCache() {
	cacheFile := filepath.Join(g.cacheDir, "geocode_cache.json")
	data, err := os.ReadFile(cacheFile)
	if err != nil {
		g.logger.Warnf("Could not load geocode cache: %v", err)
		return
	}

	err = json.Unmarshal(data, &g.cache)
	if err != nil {
		g.logger.Errorf("Failed to parse geocode cache: %v", err)
		return
	}

	g.logger.Infof("Loaded %d cached queries", len(g.cache))
}

func (g *Geocoder) saveCache() {
	g.cacheLock.RLock()
	defer g.cacheLock.RUnlock()

	cacheFile := filepath.Join(g.cacheDir, "geocode_cache.json")
	data, err := json.Marshal(g.cache)
	if err != nil {
		g.logger.Errorf("Failed to marshal geocode cache: %v", err)
		return
	}

	err = os.WriteFile(cacheFile, data, 0644)
	if err != nil {
		g.logger.Errorf("Failed to save geocode cache: %v", err)
		return
	}

	g.logger.Info("Saved geocode cache to disk")
}

type nominatimResponse []struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search geocodes a free-text query and returns the candidates in the order
// the service ranked them.
func (g *Geocoder) Search(query string) ([]Result, error) {
	// Check cache first
	g.cacheLock.RLock()
	if results, ok := g.cache[query]; ok {
		g.cacheLock.RUnlock()
		g.logger.WithFields(logrus.Fields{
			"query":  query,
			"count":  len(results),
			"source": "cache",
		}).Info("Found geocoding results in cache")
		return results, nil
	}
	g.cacheLock.RUnlock()

	g.logger.WithField("query", query).Info("Geocoding query with Nominatim")

	// Respect Nominatim's usage policy
	time.Sleep(g.delay)

	params := url.Values{
		"q":      []string{query},
		"format": []string{"json"},
		"limit":  []string{"5"},
	}

	req, err := http.NewRequest("GET", g.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	req.URL.RawQuery = params.Encode()
	req.Header.Set("User-Agent", "InmoMap Property Explorer/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.WithError(err).WithField("query", query).Error("Geocoding request failed")
		return nil, fmt.Errorf("geocoding request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		g.logger.WithError(err).WithField("query", query).Error("Failed to read response")
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	var raw nominatimResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		g.logger.WithError(err).WithField("query", query).Error("Failed to parse response")
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}

	results := make([]Result, 0, len(raw))
	for _, candidate := range raw {
		var lat, lon float64
		fmt.Sscanf(candidate.Lat, "%f", &lat)
		fmt.Sscanf(candidate.Lon, "%f", &lon)
		results = append(results, Result{
			Lat:         lat,
			Lon:         lon,
			DisplayName: candidate.DisplayName,
		})
	}

	g.logger.WithFields(logrus.Fields{
		"query":  query,
		"count":  len(results),
		"source": "nominatim",
	}).Info("Geocoded query")

	// Cache the results
	g.cacheLock.Lock()
	g.cache[query] = results
	g.cacheLock.Unlock()

	// Save cache periodically
	go g.saveCache()

	return results, nil
}
