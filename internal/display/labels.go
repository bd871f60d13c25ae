// Package display maps column names to the headers shown on table pages.
package display

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var columnLabels = map[string]string{
	"action_id":                    "Action ID",
	"action_type":                  "Action",
	"action_type_id":               "Action Type ID",
	"action_types_action_type_id":  "Action",
	"action_date":                  "Date",
	"category_id":                  "Category ID",
	"comment":                      "Comment",
	"data_units":                   "Units",
	"date_added":                   "Date Added",
	"date_time":                    "Timestamp",
	"health_score":                 "Health Score",
	"image_location":               "Image Location",
	"is_indoors":                   "Is Indoors",
	"light_categories_category_id": "Light Category",
	"light_category":               "Light Category",
	"location_id":                  "Location ID",
	"locations_location_id":        "Location",
	"name":                         "Name",
	"plant_id":                     "Plant ID",
	"plants_plant_id":              "Plant ID",
	"sensor_id":                    "Sensor ID",
	"sensor_reading_id":            "Reading ID",
	"sensor_type":                  "Sensor Type",
	"sensors_sensor_id":            "Sensor ID",
	"status":                       "Status",
	"update_date":                  "Date",
	"update_id":                    "Update ID",
	"value":                        "Value",
}

// acronyms are tokens rendered in upper case by the fallback.
var acronyms = map[string]bool{
	"id":  true,
	"url": true,
}

// Label returns the header for column. Unknown columns are split on
// underscores and spaces and title-cased.
func Label(column string) string {
	if l, ok := columnLabels[column]; ok {
		return l
	}
	words := strings.FieldsFunc(column, func(r rune) bool {
		return r == '_' || r == ' '
	})
	if len(words) == 0 {
		return column
	}
	caser := cases.Title(language.English)
	for i, w := range words {
		if acronyms[strings.ToLower(w)] {
			words[i] = strings.ToUpper(w)
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// Labels builds the header map for a page.
func Labels(columns []string) map[string]string {
	out := make(map[string]string, len(columns))
	for _, c := range columns {
		out[c] = Label(c)
	}
	return out
}

// PageTitle is the heading of a table page, e.g. "Sensor Readings".
func PageTitle(table string) string {
	return Label(table)
}
