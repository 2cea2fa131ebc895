package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/de-tools/farm-insights/pkg/adapters"
	"github.com/de-tools/farm-insights/pkg/models/api"
	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/runtime/bootstrap"
)

// AppLoader builds the application once flags have been parsed.
type AppLoader func(ctx context.Context) (*bootstrap.App, error)

// readRecordsFile accepts either a JSON array of records or an object with a
// "records" field.
func readRecordsFile(path string) ([]domain.FarmRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}

	var records []api.FarmRecord
	if err := json.Unmarshal(data, &records); err != nil {
		var wrapped api.AnalysisRequest
		if werr := json.Unmarshal(data, &wrapped); werr != nil {
			return nil, domain.NewError(domain.KindInput, "records file is not valid JSON", err)
		}
		records = wrapped.Records
	}

	out, err := adapters.MapFarmRecordsApiToDomain(records)
	if err != nil {
		return nil, domain.NewError(domain.KindInput, "invalid farm records", err)
	}
	return out, nil
}
