package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"plantfriend/internal/handlers"
)

type Handlers struct {
	Page    *handlers.PageHandler
	Table   *handlers.TableHandler
	Schema  *handlers.SchemaHandler
	History *handlers.HistoryHandler
}

func RegisterRoutes(router *gin.Engine, h Handlers, corsOrigins []string) {
	// preflight requests match no route, so CORS runs on the engine
	router.Use(corsMiddleware(corsOrigins))

	api := router.Group("/api/v1")

	NewTableRoutes(h.Table).RegisterRoutes(api)
	NewSchemaRoutes(h.Schema, h.History).RegisterRoutes(api)

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	NewPageRoutes(h.Page).RegisterRoutes(router)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	return cors.New(cfg)
}
