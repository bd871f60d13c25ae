// Package views holds the HTML templates rendered by the page handlers.
package views

import (
	"embed"
	"fmt"
	"html/template"

	"plantfriend/internal/display"
	"plantfriend/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var funcs = template.FuncMap{
	"label": display.Label,
	"title": func(t models.ManagedTable) string { return display.PageTitle(string(t)) },
	"cell": func(row map[string]any, column string) string {
		v := row[column]
		if v == nil {
			return ""
		}
		return fmt.Sprint(v)
	},
	"options": func(fields models.SchemaFieldMap, column string) []models.FieldOption {
		return fields[column]
	},
	"isFK": func(fields models.SchemaFieldMap, column string) bool {
		return fields.IsForeignKey(column)
	},
}

// Templates parses the embedded templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
}
