package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the plant schema. Every step is idempotent.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		createLightCategoriesTable,
		createActionTypesTable,
		createLocationsTable,
		createPlantsTable,
		createSensorsTable,
		createSensorReadingsTable,
		createActionsTable,
		createUpdatesTable,
		createStatementHistoryTable,
	}

	for i, migration := range migrations {
		log.Printf("Running migration %d/%d", i+1, len(migrations))
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Println("All migrations completed successfully")
	return nil
}

const createLightCategoriesTable = `
CREATE TABLE IF NOT EXISTS light_categories (
  category_id SERIAL PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);
`

const createActionTypesTable = `
CREATE TABLE IF NOT EXISTS action_types (
  action_type_id SERIAL PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);
`

const createLocationsTable = `
CREATE TABLE IF NOT EXISTS locations (
  location_id SERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  is_indoors BOOLEAN NOT NULL DEFAULT TRUE,
  light_categories_category_id INT REFERENCES light_categories(category_id) ON DELETE SET NULL
);
`

const createPlantsTable = `
CREATE TABLE IF NOT EXISTS plants (
  plant_id SERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  date_added DATE NOT NULL DEFAULT CURRENT_DATE,
  locations_location_id INT REFERENCES locations(location_id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_plants_location ON plants(locations_location_id);
`

const createSensorsTable = `
CREATE TABLE IF NOT EXISTS sensors (
  sensor_id SERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  sensor_type TEXT,
  data_units TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  plants_plant_id INT CONSTRAINT plant_fk REFERENCES plants(plant_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_sensors_plant ON sensors(plants_plant_id);
`

const createSensorReadingsTable = `
CREATE TABLE IF NOT EXISTS sensor_readings (
  sensor_reading_id SERIAL PRIMARY KEY,
  date_time TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  value NUMERIC(10,2) NOT NULL,
  sensors_sensor_id INT NOT NULL REFERENCES sensors(sensor_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_sensor_readings_sensor ON sensor_readings(sensors_sensor_id);
CREATE INDEX IF NOT EXISTS idx_sensor_readings_date_time ON sensor_readings(date_time);
`

const createActionsTable = `
CREATE TABLE IF NOT EXISTS actions (
  action_id SERIAL PRIMARY KEY,
  action_types_action_type_id INT NOT NULL REFERENCES action_types(action_type_id),
  action_date DATE NOT NULL DEFAULT CURRENT_DATE,
  plants_plant_id INT NOT NULL CONSTRAINT plant_fk REFERENCES plants(plant_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_actions_plant ON actions(plants_plant_id);
`

const createUpdatesTable = `
CREATE TABLE IF NOT EXISTS updates (
  update_id SERIAL PRIMARY KEY,
  update_date DATE NOT NULL DEFAULT CURRENT_DATE,
  health_score INT CHECK (health_score BETWEEN 0 AND 10),
  comment TEXT,
  image_location TEXT,
  plants_plant_id INT NOT NULL CONSTRAINT plant_fk REFERENCES plants(plant_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_updates_plant ON updates(plants_plant_id);
`

const createStatementHistoryTable = `
CREATE TABLE IF NOT EXISTS statement_history (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  table_name TEXT NOT NULL,
  operation TEXT NOT NULL,
  statement_text TEXT NOT NULL,
  success BOOLEAN,
  error TEXT,
  rows_affected BIGINT NOT NULL DEFAULT 0,
  execution_time_ms INT,
  executed_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_statement_history_executed_at ON statement_history(executed_at);
CREATE INDEX IF NOT EXISTS idx_statement_history_table_name ON statement_history(table_name);
`
