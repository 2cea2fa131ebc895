package domain

import "time"

// FarmRecord is a single harvest row supplied by the records collaborator.
// Numeric fields are always defined; absent values are zero.
type FarmRecord struct {
	CropType        string    // maize
	PlantingDate    time.Time // zero when unknown
	HarvestDate     time.Time // zero when unknown
	Expenses        float64   // 1000
	HarvestQuantity float64   // 10
	MarketPrice     float64   // 150 per unit of quantity
}

// Revenue is the gross income of the record.
func (r FarmRecord) Revenue() float64 {
	return r.HarvestQuantity * r.MarketPrice
}

// Aggregate holds the locally computed totals for a set of records.
// It is never produced by the generative backend.
type Aggregate struct {
	TotalCost    float64
	TotalRevenue float64
	TotalProfit  float64
	ProfitMargin float64 // 0..1 when profitable, 0 when there is no revenue
}

// PlantingContext describes the current season for a yield prediction.
type PlantingContext struct {
	CropType     string  `validate:"required"`
	PlantingDate string  `validate:"required"`
	Area         float64 `validate:"gt=0"` // hectares
	Expenses     float64 `validate:"gte=0"`
	InputsUsed   string
}
