package sql

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/de-tools/farm-insights/pkg/models/store"
	"github.com/rs/zerolog"
)

const DefaultRecordsTable = "farm_records"

// RecordReader loads a collection's farm records from a SQL warehouse.
// Works against any driver that accepts ? placeholders (duckdb, snowflake,
// databricks).
type RecordReader interface {
	ListRecords(ctx context.Context, collectionID string) ([]store.FarmRecord, error)
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*){0,2}$`)

type recordReader struct {
	db    *sql.DB
	table string
}

func NewRecordReader(db *sql.DB, table string) (RecordReader, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if table == "" {
		table = DefaultRecordsTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid records table name %q", table)
	}
	return &recordReader{db: db, table: table}, nil
}

func (r *recordReader) ListRecords(ctx context.Context, collectionID string) ([]store.FarmRecord, error) {
	logger := zerolog.Ctx(ctx)
	query := fmt.Sprintf(`
		SELECT
			collection_id,
			crop_type,
			planting_date,
			harvest_date,
			expenses,
			harvest_quantity,
			market_price
		FROM %s
		WHERE collection_id = ?
		ORDER BY harvest_date, crop_type
	`, r.table)

	rows, err := r.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, fmt.Errorf("farm records query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close farm records rows")
		}
	}(rows)

	records := make([]store.FarmRecord, 0)
	for rows.Next() {
		var rec store.FarmRecord
		if err := rows.Scan(
			&rec.CollectionID,
			&rec.CropType,
			&rec.PlantingDate,
			&rec.HarvestDate,
			&rec.Expenses,
			&rec.HarvestQuantity,
			&rec.MarketPrice,
		); err != nil {
			return nil, fmt.Errorf("failed to scan farm record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("farm records iteration failed: %w", err)
	}

	logger.Debug().
		Str("collection", collectionID).
		Int("records", len(records)).
		Msg("loaded farm records")
	return records, nil
}
