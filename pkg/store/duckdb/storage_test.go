package duckdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_CreatesTables(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "insights.db")
	db, err := NewDB(Settings{DbPath: dbPath})
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	_, err = db.Exec(
		`INSERT INTO farm_records (collection_id, crop_type, expenses, harvest_quantity, market_price) VALUES (?, ?, ?, ?, ?)`,
		"farmer-1", "maize", 1000.0, 10.0, 150.0,
	)
	require.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM farm_records WHERE collection_id = ?", "farmer-1").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = db.QueryRow("SELECT COUNT(*) FROM generation_attempts").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
