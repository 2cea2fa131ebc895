package adapters

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/farm-insights/pkg/models/api"
	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/models/store"
)

const dateLayout = "2006-01-02"

func MapFarmRecordsApiToDomain(records []api.FarmRecord) ([]domain.FarmRecord, error) {
	out := make([]domain.FarmRecord, 0, len(records))
	for i, record := range records {
		mapped, err := MapFarmRecordApiToDomain(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, mapped)
	}
	return out, nil
}

func MapFarmRecordApiToDomain(record api.FarmRecord) (domain.FarmRecord, error) {
	planted, err := parseDate(record.PlantingDate)
	if err != nil {
		return domain.FarmRecord{}, fmt.Errorf("plantingDate: %w", err)
	}
	harvested, err := parseDate(record.HarvestDate)
	if err != nil {
		return domain.FarmRecord{}, fmt.Errorf("harvestDate: %w", err)
	}

	return domain.FarmRecord{
		CropType:        strings.TrimSpace(record.CropType),
		PlantingDate:    planted,
		HarvestDate:     harvested,
		Expenses:        float64(record.Expenses),
		HarvestQuantity: float64(record.HarvestQuantity),
		MarketPrice:     float64(record.MarketPrice),
	}, nil
}

func MapFarmRecordDomainToApi(record domain.FarmRecord) api.FarmRecord {
	return api.FarmRecord{
		CropType:        record.CropType,
		PlantingDate:    formatDate(record.PlantingDate),
		HarvestDate:     formatDate(record.HarvestDate),
		Expenses:        api.Number(record.Expenses),
		HarvestQuantity: api.Number(record.HarvestQuantity),
		MarketPrice:     api.Number(record.MarketPrice),
	}
}

func MapFarmRecordsDomainToApi(records []domain.FarmRecord) []api.FarmRecord {
	out := make([]api.FarmRecord, 0, len(records))
	for _, record := range records {
		out = append(out, MapFarmRecordDomainToApi(record))
	}
	return out
}

func MapStoreFarmRecordToDomain(record store.FarmRecord) domain.FarmRecord {
	return domain.FarmRecord{
		CropType:        deref(record.CropType),
		PlantingDate:    deref(record.PlantingDate),
		HarvestDate:     deref(record.HarvestDate),
		Expenses:        deref(record.Expenses),
		HarvestQuantity: deref(record.HarvestQuantity),
		MarketPrice:     deref(record.MarketPrice),
	}
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t.UTC(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
