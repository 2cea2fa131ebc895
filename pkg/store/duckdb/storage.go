package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const FarmRecordsSchema = `
	CREATE TABLE IF NOT EXISTS farm_records (
		collection_id VARCHAR NOT NULL,
		crop_type VARCHAR,
		planting_date DATE,
		harvest_date DATE,
		expenses DOUBLE,
		harvest_quantity DOUBLE,
		market_price DOUBLE
	);
`

const GenerationAttemptsSchema = `
	CREATE TABLE IF NOT EXISTS generation_attempts (
		run_id VARCHAR NOT NULL,
		schema_id VARCHAR NOT NULL,
		attempt INTEGER NOT NULL,
		mode VARCHAR NOT NULL,
		prompt VARCHAR,
		raw_text VARCHAR,
		error_kind VARCHAR,
		error_message VARCHAR,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (run_id, attempt)
	);
`

var bootQueries = []string{
	FarmRecordsSchema,
	GenerationAttemptsSchema,
}

type Settings struct {
	DbPath  string
	Threads int // defaults to 4
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
