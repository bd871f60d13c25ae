package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"plantfriend/internal/display"
	"plantfriend/internal/middlewares"
	"plantfriend/internal/models"
	"plantfriend/internal/responses"
	"plantfriend/internal/services"
)

// PageHandler serves the server-rendered admin pages and their forms.
type PageHandler struct {
	tableService *services.TableService
}

func NewPageHandler(tableService *services.TableService) *PageHandler {
	return &PageHandler{tableService: tableService}
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.tmpl", gin.H{
		"title": "Plant Friend",
		"pages": models.AllTables(),
	})
}

// ListPage handles GET /:table
func (h *PageHandler) ListPage(c *gin.Context) {
	table, ok := middlewares.TableFromContext(c)
	if !ok {
		responses.FailPage(c, http.StatusNotFound, nil, "No such page")
		return
	}

	page, err := h.tableService.ListRows(c.Request.Context(), table)
	if err != nil {
		responses.FailPage(c, statusFor(err), err, "Failed to load "+display.PageTitle(string(table)))
		return
	}

	c.HTML(http.StatusOK, "table.tmpl", gin.H{
		"title": page.Title,
		"pages": models.AllTables(),
		"page":  page,
	})
}

// Create handles POST /:table/create
func (h *PageHandler) Create(c *gin.Context) {
	h.submit(c, h.tableService.CreateRow, false)
}

// Update handles POST /:table/update. Blank fields keep their value.
func (h *PageHandler) Update(c *gin.Context) {
	h.submit(c, h.tableService.UpdateRow, true)
}

// Delete handles POST /:table/delete
func (h *PageHandler) Delete(c *gin.Context) {
	h.submit(c, h.tableService.DeleteRow, false)
}

func (h *PageHandler) submit(c *gin.Context, fn writeFunc, dropBlank bool) {
	table, ok := middlewares.TableFromContext(c)
	if !ok {
		responses.FailPage(c, http.StatusNotFound, nil, "No such page")
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		responses.FailPage(c, http.StatusBadRequest, err, "Please check your form")
		return
	}

	row := formPayload(c.Request.PostForm, dropBlank)
	if _, err := fn(c.Request.Context(), table, row); err != nil {
		responses.FailPage(c, statusFor(err), err, "Please check your form")
		return
	}

	c.Redirect(http.StatusSeeOther, backTo(c, table))
}

// formPayload keeps the first value of every submitted field.
func formPayload(form map[string][]string, dropBlank bool) models.RowPayload {
	row := make(models.RowPayload, len(form))
	for key, values := range form {
		if len(values) == 0 {
			continue
		}
		v := strings.TrimSpace(values[0])
		if dropBlank && v == "" {
			continue
		}
		row[key] = v
	}
	return row
}

// backTo returns the page to redirect to after a form post. Only
// referers on this host are followed.
func backTo(c *gin.Context, table models.ManagedTable) string {
	if ref := c.GetHeader("Referer"); ref != "" {
		u, err := url.Parse(ref)
		if err == nil && (u.Host == "" || u.Host == c.Request.Host) && strings.HasPrefix(u.Path, "/") {
			return u.RequestURI()
		}
	}
	return "/" + string(table)
}
