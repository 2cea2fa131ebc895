package store

import "time"

// FarmRecord is a row of the farm_records table. Nullable columns are
// pointers so the adapter can apply zero defaults.
type FarmRecord struct {
	CollectionID    string
	CropType        *string
	PlantingDate    *time.Time
	HarvestDate     *time.Time
	Expenses        *float64
	HarvestQuantity *float64
	MarketPrice     *float64
}
