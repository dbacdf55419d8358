package models

import "time"

// AssetCategory classifies a tradable instrument.
type AssetCategory string

const (
	AssetStocks      AssetCategory = "stocks"
	AssetCrypto      AssetCategory = "crypto"
	AssetForex       AssetCategory = "forex"
	AssetCommodities AssetCategory = "commodities"
	AssetIndices     AssetCategory = "indices"
	AssetOptions     AssetCategory = "options"
)

// ValidAssetCategories is the set of allowed category values.
var ValidAssetCategories = map[AssetCategory]bool{
	AssetStocks:      true,
	AssetCrypto:      true,
	AssetForex:       true,
	AssetCommodities: true,
	AssetIndices:     true,
	AssetOptions:     true,
}

// Asset is an instrument the user trades or watches.
type Asset struct {
	ID        string        `json:"id"`
	Symbol    string        `json:"symbol"`
	Name      string        `json:"name"`
	Category  AssetCategory `json:"category"`
	Exchange  string        `json:"exchange,omitempty"`
	Sector    string        `json:"sector,omitempty"`
	IsActive  bool          `json:"isActive"`
	CreatedAt time.Time     `json:"createdAt,omitzero"`
}

// AssetPatch carries the fields of a partial asset update.
type AssetPatch struct {
	Symbol   *string        `json:"symbol,omitempty"`
	Name     *string        `json:"name,omitempty"`
	Category *AssetCategory `json:"category,omitempty"`
	Exchange *string        `json:"exchange,omitempty"`
	Sector   *string        `json:"sector,omitempty"`
	IsActive *bool          `json:"isActive,omitempty"`
}

// Apply returns a with every non-nil patch field written over it.
func (p AssetPatch) Apply(a Asset) Asset {
	if p.Symbol != nil {
		a.Symbol = *p.Symbol
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Exchange != nil {
		a.Exchange = *p.Exchange
	}
	if p.Sector != nil {
		a.Sector = *p.Sector
	}
	if p.IsActive != nil {
		a.IsActive = *p.IsActive
	}
	return a
}
