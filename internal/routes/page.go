package routes

import (
	"github.com/gin-gonic/gin"

	"plantfriend/internal/handlers"
	"plantfriend/internal/middlewares"
)

type PageRoutes struct {
	handler *handlers.PageHandler
}

func NewPageRoutes(handler *handlers.PageHandler) *PageRoutes {
	return &PageRoutes{handler: handler}
}

func (r *PageRoutes) RegisterRoutes(router *gin.Engine) {
	router.GET("/", r.handler.Index)

	pages := router.Group("/:table")
	pages.Use(middlewares.RequireManagedTable(true))
	{
		pages.GET("", r.handler.ListPage)
		pages.POST("/create", r.handler.Create)
		pages.POST("/update", r.handler.Update)
		pages.POST("/delete", r.handler.Delete)
	}
}
