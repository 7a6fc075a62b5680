package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"inmomap/server/config"
	"inmomap/server/internal/api"
	"inmomap/server/internal/appraise"
	"inmomap/server/internal/catalog"
	"inmomap/server/internal/geocoding"
	"inmomap/server/internal/handoff"
	"inmomap/server/internal/history"
	"inmomap/server/internal/maps"
	"inmomap/server/internal/models"
	"inmomap/server/internal/notify"
	"inmomap/server/internal/search"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Load the property catalog. A failed load is logged and the session
	// starts with an empty catalog; there is no retry.
	propertyCatalog := catalog.New(logger)
	if err := propertyCatalog.Load(catalogSource(cfg, logger)); err != nil {
		logger.WithError(err).Error("Catalog unavailable, starting with empty state")
	}

	// Seed the alert store from the notifications document
	notifications := notify.NewStore(propertyCatalog.FindByID, logger)
	if err := notifications.LoadDocument(cfg.NotificationsDocument); err != nil {
		logger.WithError(err).Error("Notifications unavailable, starting with empty state")
	}
	notifications.OnChange(func(items []*models.Notification) {
		logger.WithField("count", len(items)).Debug("Notification panel re-rendered")
	})

	// Viewing history, fed by marker selections
	historyStore := history.NewStore(logger)
	historyStore.OnChange(func(entries []*models.Property) {
		logger.WithField("count", len(entries)).Debug("History panel re-rendered")
	})

	// Map state and synchronization
	center := orb.Point{cfg.Map.CenterLon, cfg.Map.CenterLat}
	mapState := maps.NewMapState(center, cfg.Map.InitialZoom)
	mapSync := maps.NewMapSync(mapState, time.Duration(cfg.Map.TransientMarkerTTL)*time.Second, logger)
	defer mapSync.Close()

	mapSync.OnSelect(historyStore.Visit)
	mapSync.InitOverlays(maps.BuildOverlays(propertyCatalog.All()))
	mapSync.Render(propertyCatalog.All())

	// Geocoding with a local cache
	cacheDir := cfg.Geocoder.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "inmomap", "geocode_cache")
	}
	geocoder := geocoding.NewGeocoder(logger, cfg.Geocoder.BaseURL, cacheDir)
	resolver := search.NewResolver(propertyCatalog, geocoder, logger)

	// Appraisal handoff storage
	handoffStore, err := handoff.Open(cfg.HandoffDBPath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open handoff store")
	}
	appraisal := appraise.NewService(propertyCatalog, handoffStore, logger)

	handler := api.NewHandler(api.Stores{
		Catalog:       propertyCatalog,
		MapSync:       mapSync,
		MapState:      mapState,
		History:       historyStore,
		Notifications: notifications,
		Resolver:      resolver,
		Appraisal:     appraisal,
		SearchZoom:    cfg.Map.SearchZoom,
	}, logger)

	router := gin.Default()
	router.Use(cors.Default())
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}

func catalogSource(cfg *config.Config, logger *logrus.Logger) catalog.Source {
	if cfg.Catalog.Source == "sqlite" {
		source, err := catalog.OpenSQLiteSource(cfg.Catalog.DBPath)
		if err != nil {
			logger.WithError(err).Fatal("Failed to open catalog database")
		}
		return source
	}
	return catalog.NewDocumentSource(cfg.Catalog.Document)
}
