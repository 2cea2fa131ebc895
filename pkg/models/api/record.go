package api

// FarmRecord is the wire form of a record. Unknown fields are ignored.
type FarmRecord struct {
	CropType        string `json:"cropType"`
	PlantingDate    string `json:"plantingDate,omitempty"`
	HarvestDate     string `json:"harvestDate,omitempty"`
	Expenses        Number `json:"expenses"`
	HarvestQuantity Number `json:"harvestQuantity"`
	MarketPrice     Number `json:"marketPrice"`
}

type Metrics struct {
	TotalCost    float64 `json:"totalCost"`
	TotalRevenue float64 `json:"totalRevenue"`
	TotalProfit  float64 `json:"totalProfit"`
	ProfitMargin float64 `json:"profitMargin"`
}
