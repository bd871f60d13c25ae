package routes

import (
	"github.com/gin-gonic/gin"

	"plantfriend/internal/handlers"
)

type SchemaRoutes struct {
	handler        *handlers.SchemaHandler
	historyHandler *handlers.HistoryHandler
}

func NewSchemaRoutes(handler *handlers.SchemaHandler, historyHandler *handlers.HistoryHandler) *SchemaRoutes {
	return &SchemaRoutes{handler: handler, historyHandler: historyHandler}
}

func (r *SchemaRoutes) RegisterRoutes(router *gin.RouterGroup) {
	schema := router.Group("/schema")
	{
		schema.GET("", r.handler.GetSchema)
		schema.POST("/refresh", r.handler.RefreshSchema)
	}
	router.GET("/history", r.historyHandler.ListHistory)
}
