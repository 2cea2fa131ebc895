// Package sources loads farm record collections from a configured SQL
// warehouse.
package sources

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/farm-insights/pkg/adapters"
	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/services/config"
	"github.com/de-tools/farm-insights/pkg/store/duckdb"
	sqlstore "github.com/de-tools/farm-insights/pkg/store/sql"
)

type Loader interface {
	LoadRecords(ctx context.Context, collectionID string) ([]domain.FarmRecord, error)
}

type loader struct {
	reader sqlstore.RecordReader
}

func NewLoader(reader sqlstore.RecordReader) Loader {
	return &loader{reader: reader}
}

func (l *loader) LoadRecords(ctx context.Context, collectionID string) ([]domain.FarmRecord, error) {
	if collectionID == "" {
		return nil, domain.Errorf(domain.KindInput, "collection id is required")
	}

	rows, err := l.reader.ListRecords(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("load records for %s: %w", collectionID, err)
	}

	records := make([]domain.FarmRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, adapters.MapStoreFarmRecordToDomain(row))
	}
	return records, nil
}

// Open connects to the warehouse named by src.Kind. It returns nil, nil when
// no source is configured.
func Open(ctx context.Context, src config.SourceConfig) (*sql.DB, error) {
	switch src.Kind {
	case config.SourceNone:
		return nil, nil
	case config.SourceDuckDB:
		if src.DuckDBPath == "" {
			return nil, domain.Errorf(domain.KindConfiguration, "duckdb source requires source.duckdb_path")
		}
		return duckdb.NewDB(duckdb.Settings{DbPath: src.DuckDBPath})
	case config.SourceSnowflake:
		return openSnowflake(src.ProfilePath)
	case config.SourceDatabricks:
		return openDatabricks(ctx, src)
	default:
		return nil, domain.Errorf(domain.KindConfiguration, "unsupported record source %q", src.Kind)
	}
}
