package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"plantfriend/internal/middlewares"
	"plantfriend/internal/models"
	"plantfriend/internal/responses"
	"plantfriend/internal/services"
)

// TableHandler serves the JSON API over the managed tables.
type TableHandler struct {
	tableService *services.TableService
}

func NewTableHandler(tableService *services.TableService) *TableHandler {
	return &TableHandler{
		tableService: tableService,
	}
}

// ListTables handles GET /api/v1/tables
func (h *TableHandler) ListTables(c *gin.Context) {
	responses.Success(c, http.StatusOK, gin.H{"tables": models.AllTables()}, "Managed tables")
}

// ListRows handles GET /api/v1/tables/:table
func (h *TableHandler) ListRows(c *gin.Context) {
	table, ok := middlewares.TableFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusNotFound, nil, "Unknown table")
		return
	}

	page, err := h.tableService.ListRows(c.Request.Context(), table)
	if err != nil {
		responses.Fail(c, statusFor(err), err, "Failed to list rows")
		return
	}

	responses.Success(c, http.StatusOK, page, "Rows fetched successfully")
}

// CreateRow handles POST /api/v1/tables/:table
func (h *TableHandler) CreateRow(c *gin.Context) {
	h.write(c, h.tableService.CreateRow, http.StatusCreated, "Row created successfully")
}

// UpdateRow handles PUT /api/v1/tables/:table
func (h *TableHandler) UpdateRow(c *gin.Context) {
	h.write(c, h.tableService.UpdateRow, http.StatusOK, "Row updated successfully")
}

// DeleteRow handles DELETE /api/v1/tables/:table
func (h *TableHandler) DeleteRow(c *gin.Context) {
	h.write(c, h.tableService.DeleteRow, http.StatusOK, "Row deleted successfully")
}

type writeFunc func(ctx context.Context, table models.ManagedTable, row models.RowPayload) (*services.WriteResult, error)

func (h *TableHandler) write(c *gin.Context, fn writeFunc, status int, message string) {
	table, ok := middlewares.TableFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusNotFound, nil, "Unknown table")
		return
	}

	var row models.RowPayload
	if err := c.ShouldBindJSON(&row); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	result, err := fn(c.Request.Context(), table, row)
	if err != nil {
		responses.Fail(c, statusFor(err), err, "Cannot write the given row")
		return
	}

	responses.Success(c, status, result, message)
}
