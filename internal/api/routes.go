package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/properties", handler.GetProperties)
		api.GET("/properties/:id", handler.GetProperty)

		api.GET("/map", handler.GetMapState)
		api.POST("/map/filter", handler.FilterMap)
		api.POST("/map/select/:id", handler.SelectMarker)
		api.POST("/map/overlays/:name", handler.ToggleOverlay)

		api.POST("/search", handler.Search)

		api.GET("/history", handler.GetHistory)
		api.DELETE("/history/:id", handler.RemoveFromHistory)

		api.GET("/notifications", handler.GetNotifications)
		api.POST("/notifications", handler.CreateNotification)
		api.PUT("/notifications/:id", handler.EditNotification)
		api.DELETE("/notifications/:id", handler.DeleteNotification)

		api.GET("/appraisal", handler.GetAppraisal)
		api.POST("/appraisal/select/:id", handler.SelectForAppraisal)
	}
}
