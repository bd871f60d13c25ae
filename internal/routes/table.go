package routes

import (
	"github.com/gin-gonic/gin"

	"plantfriend/internal/handlers"
	"plantfriend/internal/middlewares"
)

type TableRoutes struct {
	tableHandler *handlers.TableHandler
}

func NewTableRoutes(tableHandler *handlers.TableHandler) *TableRoutes {
	return &TableRoutes{
		tableHandler: tableHandler,
	}
}

func (r *TableRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/tables", r.tableHandler.ListTables)

	tables := router.Group("/tables/:table")
	tables.Use(middlewares.RequireManagedTable(false))
	{
		tables.GET("", r.tableHandler.ListRows)
		tables.POST("", r.tableHandler.CreateRow)
		tables.PUT("", r.tableHandler.UpdateRow)
		tables.DELETE("", r.tableHandler.DeleteRow)
	}
}
