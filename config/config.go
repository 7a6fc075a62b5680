package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// HTTP port the API listens on
	Port string `env:"PORT" envDefault:"5250"`

	Catalog struct {
		// Source selects where the catalog is loaded from: "document" or "sqlite"
		Source string `env:"CATALOG_SOURCE" envDefault:"document"`

		// Path or URL of the properties document
		Document string `env:"CATALOG_DOCUMENT" envDefault:"data/properties.json"`

		// Path of the sqlite catalog database
		DBPath string `env:"CATALOG_DB_PATH" envDefault:"database/catalog.db"`
	}

	// Path of the notifications document loaded at startup
	NotificationsDocument string `env:"NOTIFICATIONS_DOCUMENT" envDefault:"data/notifications.json"`

	// Path of the sqlite database backing the appraisal handoff
	HandoffDBPath string `env:"HANDOFF_DB_PATH" envDefault:"database/handoff.db"`

	Map struct {
		// Initial view center (defaults to Lima)
		CenterLat float64 `env:"MAP_CENTER_LAT" envDefault:"-12.0464"`
		CenterLon float64 `env:"MAP_CENTER_LON" envDefault:"-77.0428"`

		InitialZoom int `env:"MAP_INITIAL_ZOOM" envDefault:"13"`

		// Zoom applied when focusing a search result
		SearchZoom int `env:"MAP_SEARCH_ZOOM" envDefault:"15"`

		// Seconds a transient search marker stays on the map
		TransientMarkerTTL int `env:"MAP_TRANSIENT_MARKER_TTL" envDefault:"5"`
	}

	Geocoder struct {
		BaseURL  string `env:"GEOCODER_BASE_URL" envDefault:"https://nominatim.openstreetmap.org/search"`
		CacheDir string `env:"GEOCODER_CACHE_DIR"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
