package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plantfriend/internal/responses"
	"plantfriend/internal/services"
)

type SchemaHandler struct {
	schemaService *services.SchemaService
}

func NewSchemaHandler(schemaService *services.SchemaService) *SchemaHandler {
	return &SchemaHandler{
		schemaService: schemaService,
	}
}

// GetSchema handles GET /api/v1/schema
func (h *SchemaHandler) GetSchema(c *gin.Context) {
	snap := h.schemaService.Snapshot()
	if snap == nil {
		responses.Fail(c, http.StatusServiceUnavailable, services.ErrSnapshotNotLoaded, "Schema not loaded")
		return
	}
	responses.Success(c, http.StatusOK, snap, "Schema snapshot")
}

// RefreshSchema handles POST /api/v1/schema/refresh
func (h *SchemaHandler) RefreshSchema(c *gin.Context) {
	snap, err := h.schemaService.Refresh(c.Request.Context())
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to refresh schema")
		return
	}
	responses.Success(c, http.StatusOK, snap, "Schema refreshed successfully")
}
