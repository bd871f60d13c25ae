package models

import (
	"errors"
	"fmt"
)

var ErrUnknownTable = errors.New("unknown table")

// ManagedTable is one of the tables the panel exposes CRUD pages for.
type ManagedTable string

const (
	Actions         ManagedTable = "actions"
	Locations       ManagedTable = "locations"
	Plants          ManagedTable = "plants"
	SensorReadings  ManagedTable = "sensor_readings"
	Sensors         ManagedTable = "sensors"
	Updates         ManagedTable = "updates"
	LightCategories ManagedTable = "light_categories"
	ActionTypes     ManagedTable = "action_types"
)

var managedTables = []ManagedTable{
	Actions,
	Locations,
	Plants,
	SensorReadings,
	Sensors,
	Updates,
	LightCategories,
	ActionTypes,
}

// AllTables returns the managed tables in navigation order.
func AllTables() []ManagedTable {
	out := make([]ManagedTable, len(managedTables))
	copy(out, managedTables)
	return out
}

// ParseManagedTable rejects any name outside the managed set.
func ParseManagedTable(name string) (ManagedTable, error) {
	for _, t := range managedTables {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTable, name)
}

func (t ManagedTable) String() string {
	return string(t)
}
