package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantfriend/internal/models"
	"plantfriend/internal/responses"
	"plantfriend/internal/services"
	"plantfriend/internal/sqlbuilder"
)

// memSchema describes every managed table as (<pk>, name), with plants
// pointing at locations.
type memSchema struct{}

func pkOf(table string) string {
	switch table {
	case "light_categories":
		return "category_id"
	case "sensor_readings":
		return "sensor_reading_id"
	default:
		return strings.TrimSuffix(table, "s") + "_id"
	}
}

func (memSchema) GetColumns(ctx context.Context, table string) ([]string, error) {
	if table == "plants" {
		return []string{"plant_id", "name", "locations_location_id"}, nil
	}
	return []string{pkOf(table), "name"}, nil
}

func (memSchema) GetPrimaryKeys(ctx context.Context, tables []string) ([]models.TableColumn, error) {
	out := make([]models.TableColumn, len(tables))
	for i, t := range tables {
		out[i] = models.TableColumn{Table: t, Column: pkOf(t)}
	}
	return out, nil
}

func (memSchema) GetForeignKeys(ctx context.Context, table string) ([]models.ForeignKeyConstraint, error) {
	if table != "plants" {
		return nil, nil
	}
	return []models.ForeignKeyConstraint{{
		ConstraintName:   "plants_location_fk",
		Column:           "locations_location_id",
		ReferencedTable:  "locations",
		ReferencedColumn: "location_id",
	}}, nil
}

func (memSchema) GetDisplayNames(ctx context.Context, table, idColumn, nameColumn string) ([]models.FieldOption, error) {
	return []models.FieldOption{{Value: "1", Label: "Kitchen"}}, nil
}

type memRows struct {
	execs    []sqlbuilder.Statement
	affected int64
}

func (m *memRows) Query(ctx context.Context, stmt sqlbuilder.Statement) (*models.QueryResult, error) {
	return &models.QueryResult{
		Columns:  []string{"plant_id", "name", "locations_location_id"},
		Rows:     []map[string]any{{"plant_id": 1, "name": "Fern", "locations_location_id": "Kitchen"}},
		RowCount: 1,
	}, nil
}

func (m *memRows) Exec(ctx context.Context, stmt sqlbuilder.Statement) (int64, error) {
	m.execs = append(m.execs, stmt)
	return m.affected, nil
}

type memHistory struct {
	entries []models.StatementHistory
}

func (m *memHistory) Create(entry *models.StatementHistory) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memHistory) ListRecent(limit int) ([]models.StatementHistory, error) {
	return m.entries, nil
}

func newTestRouter(t *testing.T, load bool) (*gin.Engine, *memRows, *memHistory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	schemaService := services.NewSchemaService(memSchema{})
	if load {
		_, err := schemaService.Load(context.Background())
		require.NoError(t, err)
	}
	rows := &memRows{affected: 1}
	history := &memHistory{}
	tableService := services.NewTableService(schemaService, rows, history)

	router, err := NewRouter(schemaService, tableService, []string{"*"})
	require.NoError(t, err)
	return router, rows, history
}

func serve(router http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) responses.APIResponse {
	t.Helper()
	var resp responses.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestJSONRoutes(t *testing.T) {
	router, _, _ := newTestRouter(t, true)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"list tables", http.MethodGet, "/api/v1/tables", "", http.StatusOK},
		{"list rows", http.MethodGet, "/api/v1/tables/plants", "", http.StatusOK},
		{"unknown table", http.MethodGet, "/api/v1/tables/users", "", http.StatusNotFound},
		{"create", http.MethodPost, "/api/v1/tables/plants", `{"name":"Fern"}`, http.StatusCreated},
		{"create empty", http.MethodPost, "/api/v1/tables/plants", `{}`, http.StatusBadRequest},
		{"create unknown column", http.MethodPost, "/api/v1/tables/plants", `{"colour":"green"}`, http.StatusBadRequest},
		{"create bad json", http.MethodPost, "/api/v1/tables/plants", `{`, http.StatusBadRequest},
		{"update without key", http.MethodPut, "/api/v1/tables/plants", `{"name":"Fern"}`, http.StatusBadRequest},
		{"update", http.MethodPut, "/api/v1/tables/plants", `{"plant_id":1,"name":"Fern"}`, http.StatusOK},
		{"delete", http.MethodDelete, "/api/v1/tables/plants", `{"plant_id":1}`, http.StatusOK},
		{"schema", http.MethodGet, "/api/v1/schema", "", http.StatusOK},
		{"history", http.MethodGet, "/api/v1/history", "", http.StatusOK},
		{"history bad limit", http.MethodGet, "/api/v1/history?limit=zero", "", http.StatusBadRequest},
		{"health", http.MethodGet, "/api/v1/health", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, tt.method, tt.target, "application/json", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestDeleteMissingRowIsNotFound(t *testing.T) {
	router, rows, history := newTestRouter(t, true)
	rows.affected = 0

	w := serve(router, http.MethodDelete, "/api/v1/tables/plants", "application/json", `{"plant_id":42}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", decode(t, w).Status)
	require.Len(t, history.entries, 1)
	assert.Equal(t, models.OperationDelete, history.entries[0].Operation)
}

func TestRoutesWithoutSnapshot(t *testing.T) {
	router, _, _ := newTestRouter(t, false)

	w := serve(router, http.MethodGet, "/api/v1/tables/plants", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = serve(router, http.MethodGet, "/api/v1/schema", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListPageRendersRowsAndOptions(t *testing.T) {
	router, _, _ := newTestRouter(t, true)

	w := serve(router, http.MethodGet, "/plants", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Fern")
	assert.Contains(t, body, `<option value="1">Kitchen</option>`)
	assert.Contains(t, body, `action="/plants/create"`)
}

func TestIndexListsEveryTable(t *testing.T) {
	router, _, _ := newTestRouter(t, true)

	w := serve(router, http.MethodGet, "/", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	for _, table := range models.AllTables() {
		assert.Contains(t, w.Body.String(), `href="/`+string(table)+`"`)
	}
}

func TestUnknownPageIsNotFound(t *testing.T) {
	router, _, _ := newTestRouter(t, true)

	w := serve(router, http.MethodGet, "/users", "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No such page")
}

func TestFormCreateRedirectsBack(t *testing.T) {
	router, rows, _ := newTestRouter(t, true)

	form := url.Values{"name": {"Fern"}, "locations_location_id": {""}}
	w := serve(router, http.MethodPost, "/plants/create", "application/x-www-form-urlencoded", form.Encode())

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/plants", w.Header().Get("Location"))
	require.Len(t, rows.execs, 1)
	assert.Equal(t, `INSERT INTO "plants" ("name") VALUES ($1)`, rows.execs[0].SQL)
}

func TestFormUpdateKeepsBlankFields(t *testing.T) {
	router, rows, _ := newTestRouter(t, true)

	form := url.Values{"plant_id": {"1"}, "name": {"Basil"}, "locations_location_id": {""}}
	w := serve(router, http.MethodPost, "/plants/update", "application/x-www-form-urlencoded", form.Encode())

	assert.Equal(t, http.StatusSeeOther, w.Code)
	require.Len(t, rows.execs, 1)
	assert.NotContains(t, rows.execs[0].SQL, "locations_location_id")
}

func TestFormErrorRendersErrorPage(t *testing.T) {
	router, rows, _ := newTestRouter(t, true)

	w := serve(router, http.MethodPost, "/plants/delete", "application/x-www-form-urlencoded", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please check your form")
	assert.Empty(t, rows.execs)
}
