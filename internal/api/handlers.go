package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"inmomap/server/internal/appraise"
	"inmomap/server/internal/catalog"
	"inmomap/server/internal/history"
	"inmomap/server/internal/maps"
	"inmomap/server/internal/notify"
	"inmomap/server/internal/search"
)

type Handler struct {
	catalog       *catalog.Catalog
	mapSync       *maps.MapSync
	mapState      *maps.MapState
	historyStore  *history.Store
	notifications *notify.Store
	resolver      *search.Resolver
	appraisal     *appraise.Service
	searchZoom    int
	logger        *logrus.Logger
}

type Stores struct {
	Catalog       *catalog.Catalog
	MapSync       *maps.MapSync
	MapState      *maps.MapState
	History       *history.Store
	Notifications *notify.Store
	Resolver      *search.Resolver
	Appraisal     *appraise.Service
	SearchZoom    int
}

type FilterRequest struct {
	Type     string `json:"tipo"`
	Contract string `json:"contrato"`
}

type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}

type CreateAlertRequest struct {
	PropertyID string `json:"propertyId" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Frequency  string `json:"frequency" binding:"required"`
}

type EditAlertRequest struct {
	Frequency string `json:"frequency" binding:"required"`
}

func NewHandler(stores Stores, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		catalog:       stores.Catalog,
		mapSync:       stores.MapSync,
		mapState:      stores.MapState,
		historyStore:  stores.History,
		notifications: stores.Notifications,
		resolver:      stores.Resolver,
		appraisal:     stores.Appraisal,
		searchZoom:    stores.SearchZoom,
		logger:        logger,
	}
}

func (h *Handler) GetProperties(c *gin.Context) {
	propertyType := c.Query("tipo")
	contract := c.Query("contrato")
	c.JSON(http.StatusOK, h.catalog.Filter(propertyType, contract))
}

func (h *Handler) GetProperty(c *gin.Context) {
	property, err := h.catalog.FindByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	c.JSON(http.StatusOK, property)
}

// FilterMap re-renders the marker set from the active filters. Overlays are
// unaffected; they were computed from the full catalog at load.
func (h *Handler) FilterMap(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse filter request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	filtered := h.catalog.Filter(req.Type, req.Contract)
	h.mapSync.Render(filtered)

	c.JSON(http.StatusOK, gin.H{"rendered": len(filtered)})
}

func (h *Handler) GetMapState(c *gin.Context) {
	c.JSON(http.StatusOK, h.mapState.Snapshot())
}

// SelectMarker reports a marker click, which records the property in the
// viewing history.
func (h *Handler) SelectMarker(c *gin.Context) {
	id := c.Param("id")
	if !h.mapSync.Select(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Marker not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": id})
}

func (h *Handler) ToggleOverlay(c *gin.Context) {
	name := c.Param("name")
	visible, err := h.mapSync.ToggleOverlay(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown overlay"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"overlay": name, "visible": visible})
}

// Search resolves a free-text query and focuses the map on any match.
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse search request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	resolution := h.resolver.Resolve(req.Query)
	if resolution.Kind == search.NoMatch {
		c.JSON(http.StatusOK, gin.H{
			"kind":    resolution.Kind.String(),
			"message": "Location not found",
		})
		return
	}

	h.mapSync.Focus(resolution.Coordinate, h.searchZoom, resolution.Label)

	response := gin.H{
		"kind":       resolution.Kind.String(),
		"label":      resolution.Label,
		"coordinate": resolution.Coordinate,
	}
	if resolution.Property != nil {
		response["property"] = resolution.Property
	}
	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.historyStore.List())
}

func (h *Handler) RemoveFromHistory(c *gin.Context) {
	h.historyStore.Remove(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (h *Handler) GetNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, h.notifications.List())
}

func (h *Handler) CreateNotification(c *gin.Context) {
	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse alert request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	notification := h.notifications.Create(req.PropertyID, req.Name, req.Frequency)
	c.JSON(http.StatusCreated, notification)
}

func (h *Handler) EditNotification(c *gin.Context) {
	var req EditAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse alert edit request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	if !h.notifications.Edit(c.Param("id"), req.Frequency) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	if !h.notifications.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// SelectForAppraisal hands a property off to the appraisal view.
func (h *Handler) SelectForAppraisal(c *gin.Context) {
	err := h.appraisal.Select(c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to store appraisal handoff")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store selection"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "selected"})
}

func (h *Handler) GetAppraisal(c *gin.Context) {
	property, err := h.appraisal.View()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No property to appraise"})
		return
	}
	c.JSON(http.StatusOK, property)
}
