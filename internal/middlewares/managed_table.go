package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plantfriend/internal/models"
	"plantfriend/internal/responses"
)

const tableKey = "managedTable"

// RequireManagedTable rejects any :table path parameter outside the managed
// set before a handler sees it. html selects the error page over JSON.
func RequireManagedTable(html bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, err := models.ParseManagedTable(c.Param("table"))
		if err != nil {
			if html {
				responses.FailPage(c, http.StatusNotFound, err, "No such page")
				c.Abort()
				return
			}
			responses.AbortFail(c, http.StatusNotFound, err, "Unknown table")
			return
		}
		c.Set(tableKey, table)
		c.Next()
	}
}

// TableFromContext returns the table validated by RequireManagedTable.
func TableFromContext(c *gin.Context) (models.ManagedTable, bool) {
	v, ok := c.Get(tableKey)
	if !ok {
		return "", false
	}
	table, ok := v.(models.ManagedTable)
	return table, ok
}
