package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"plantfriend/internal/responses"
	"plantfriend/internal/services"
)

const maxHistoryLimit = 500

type HistoryHandler struct {
	tableService *services.TableService
}

func NewHistoryHandler(tableService *services.TableService) *HistoryHandler {
	return &HistoryHandler{tableService: tableService}
}

// ListHistory handles GET /api/v1/history?limit=n
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		responses.Fail(c, http.StatusBadRequest, err, "limit must be a positive integer")
		return
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := h.tableService.History(limit)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load statement history")
		return
	}

	responses.Success(c, http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	}, "Statement history")
}
