package repositories_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"plantfriend/internal/database"
	"plantfriend/internal/models"
	"plantfriend/internal/repositories"
	"plantfriend/internal/services"
)

func TestPlantSchemaAgainstPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("plant_friend"),
		tcpostgres.WithUsername("plants"),
		tcpostgres.WithPassword("plants"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.ConnectDSN(ctx, dsn, "public")
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, database.RunMigrations(ctx, pool))
	// Running twice must be harmless.
	require.NoError(t, database.RunMigrations(ctx, pool))

	gormDB, err := database.OpenGorm(pool)
	require.NoError(t, err)

	schemaService := services.NewSchemaService(repositories.NewSchemaRepository(pool, "public"))
	snap, err := schemaService.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Tables, len(models.AllTables()))
	assert.Equal(t, "plant_id", snap.PrimaryKeys[models.Plants])
	assert.Equal(t, []string{"plant_id", "name", "date_added", "locations_location_id"}, snap.Tables[models.Plants].Columns)

	// actions, sensors and updates each own a constraint named plant_fk.
	actions := snap.Tables[models.Actions]
	require.Len(t, actions.ForeignKeys, 2)
	assert.Equal(t, models.ForeignKeyRef{Column: "action_types_action_type_id", ReferencedTable: "action_types", ReferencedColumn: "action_type_id"}, actions.ForeignKeys[0])
	assert.Equal(t, models.ForeignKeyRef{Column: "plants_plant_id", ReferencedTable: "plants", ReferencedColumn: "plant_id"}, actions.ForeignKeys[1])
	assert.Len(t, snap.Tables[models.Updates].ForeignKeys, 1)
	assert.Len(t, snap.Tables[models.Sensors].ForeignKeys, 1)

	history := repositories.NewHistoryRepository(gormDB)
	tableService := services.NewTableService(schemaService, repositories.NewRowRepository(pool), history)

	_, err = tableService.CreateRow(ctx, models.Locations, models.RowPayload{"name": "Kitchen"})
	require.NoError(t, err)
	_, err = tableService.CreateRow(ctx, models.Plants, models.RowPayload{"name": "Fern", "locations_location_id": "1"})
	require.NoError(t, err)

	page, err := tableService.ListRows(ctx, models.Plants)
	require.NoError(t, err)
	require.Equal(t, 1, page.RowCount)
	assert.Equal(t, "Fern", page.Rows[0]["name"])
	assert.Equal(t, "Kitchen", page.Rows[0]["locations_location_id"])
	assert.Equal(t, []string{"Kitchen"}, page.Fields.Names("locations_location_id"))
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, page.Rows[0]["date_added"])

	_, err = tableService.UpdateRow(ctx, models.Plants, models.RowPayload{"plant_id": "1", "locations_location_id": ""})
	require.NoError(t, err)
	page, err = tableService.ListRows(ctx, models.Plants)
	require.NoError(t, err)
	assert.Nil(t, page.Rows[0]["locations_location_id"])

	_, err = tableService.DeleteRow(ctx, models.Plants, models.RowPayload{"plant_id": "99"})
	assert.ErrorIs(t, err, services.ErrRowNotFound)

	entries, err := history.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, models.OperationDelete, entries[0].Operation)
	assert.Equal(t, "plants", entries[0].Target)

	t.Run("read-only role sees foreign keys", func(t *testing.T) {
		_, err := pool.Exec(ctx, `CREATE ROLE viewer LOGIN PASSWORD 'viewer'`)
		require.NoError(t, err)
		_, err = pool.Exec(ctx, `GRANT SELECT ON ALL TABLES IN SCHEMA public TO viewer`)
		require.NoError(t, err)

		u, err := url.Parse(dsn)
		require.NoError(t, err)
		u.User = url.UserPassword("viewer", "viewer")

		viewerPool, err := database.ConnectDSN(ctx, u.String(), "public")
		require.NoError(t, err)
		defer viewerPool.Close()

		viewerSnap, err := services.NewSchemaService(repositories.NewSchemaRepository(viewerPool, "public")).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, snap.Tables, viewerSnap.Tables)
	})
}
