package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/services/config"
	sqlstore "github.com/de-tools/farm-insights/pkg/store/sql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_DuckDBSource(t *testing.T) {
	// Given
	ctx := context.Background()
	db, err := Open(ctx, config.SourceConfig{
		Kind:       config.SourceDuckDB,
		DuckDBPath: filepath.Join(t.TempDir(), "records.duckdb"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		INSERT INTO farm_records VALUES
			('farmer-1', 'maize', DATE '2024-03-01', DATE '2024-07-15', 1000, 10, 150),
			('farmer-1', NULL, NULL, NULL, NULL, 5, 20),
			('farmer-2', 'beans', NULL, NULL, 50, 1, 1)
	`)
	require.NoError(t, err)

	reader, err := sqlstore.NewRecordReader(db, "")
	require.NoError(t, err)

	// When
	records, err := NewLoader(reader).LoadRecords(ctx, "farmer-1")

	// Then
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.FarmRecord{
		CropType:        "maize",
		PlantingDate:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		HarvestDate:     time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		Expenses:        1000,
		HarvestQuantity: 10,
		MarketPrice:     150,
	}, records[0])
	assert.Equal(t, domain.FarmRecord{HarvestQuantity: 5, MarketPrice: 20}, records[1])
}

func TestLoader_RequiresCollection(t *testing.T) {
	_, err := NewLoader(nil).LoadRecords(context.Background(), "")

	assert.Equal(t, domain.KindInput, domain.KindOf(err))
}

func TestOpen(t *testing.T) {
	db, err := Open(context.Background(), config.SourceConfig{})
	assert.NoError(t, err)
	assert.Nil(t, db)

	_, err = Open(context.Background(), config.SourceConfig{Kind: config.SourceDuckDB})
	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))

	_, err = Open(context.Background(), config.SourceConfig{Kind: "oracle"})
	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
}

func TestLoadDatabricksConfig(t *testing.T) {
	// Given
	path := writeFile(t, "databricks.yaml", `host: "example.com:443"
token: "tok"
http_path: "/sql/1.0/warehouses/wh"
catalog: "main"
schema: "farms"`)

	// When
	cfg, err := LoadDatabricksConfig(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, &DatabricksConfig{
		Host:     "example.com:443",
		Token:    "tok",
		HTTPPath: "/sql/1.0/warehouses/wh",
		Catalog:  "main",
		Schema:   "farms",
	}, cfg)

	dsn, err := DatabricksDSN(cfg)
	require.NoError(t, err)
	assert.Equal(t, "token:tok@example.com:443/sql/1.0/warehouses/wh?catalog=main&schema=farms", dsn)
}

func TestDatabricksConfigFromProfile(t *testing.T) {
	path := writeFile(t, ".databrickscfg", `[farms]
host      = https://adb-2.azuredatabricks.net/
token     = dapi-farms
http_path = /sql/1.0/warehouses/abc
`)
	registry, err := config.NewProfileRegistry(path)
	require.NoError(t, err)
	ctx := context.Background()

	cfg, err := DatabricksConfigFromProfile(ctx, registry, "farms", "")
	require.NoError(t, err)
	dsn, err := DatabricksDSN(cfg)
	require.NoError(t, err)
	assert.Equal(t, "token:dapi-farms@adb-2.azuredatabricks.net/sql/1.0/warehouses/abc", dsn)

	cfg, err = DatabricksConfigFromProfile(ctx, registry, "farms", "sql/override")
	require.NoError(t, err)
	dsn, err = DatabricksDSN(cfg)
	require.NoError(t, err)
	assert.Equal(t, "token:dapi-farms@adb-2.azuredatabricks.net/sql/override", dsn)
}

func TestDatabricksDSN_Incomplete(t *testing.T) {
	_, err := DatabricksDSN(&DatabricksConfig{Host: "h"})

	assert.Error(t, err)
}

func TestLoadSnowflakeConfig(t *testing.T) {
	path := writeFile(t, "snowflake.yaml", `account: "xy12345.eu-west-1"
user: "analyst"
password: "secret"
database: "FARMS"
warehouse: "COMPUTE_WH"
role: "READER"`)

	cfg, err := LoadSnowflakeConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "xy12345.eu-west-1", cfg.Account)
	assert.Equal(t, "analyst", cfg.User)
	assert.Equal(t, "FARMS", cfg.Database)
	assert.Equal(t, "COMPUTE_WH", cfg.Warehouse)
	assert.Equal(t, "READER", cfg.Role)

	_, err = LoadSnowflakeConfig(writeFile(t, "empty.yaml", `database: "FARMS"`))
	assert.Error(t, err)
}
