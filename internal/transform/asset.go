package transform

import "github.com/bobmcallan/tradejournal/internal/models"

// AssetFromRow converts an assets row into an Asset.
func AssetFromRow(row models.Row) (models.Asset, error) {
	r := newReader(models.TableAssets, row)
	a := models.Asset{
		ID:        r.id(),
		Symbol:    r.str(ColSymbol),
		Name:      r.str(ColName),
		Category:  models.AssetCategory(r.str(ColCategory)),
		Exchange:  r.str(ColExchange),
		Sector:    r.str(ColSector),
		IsActive:  r.boolOr(ColIsActive, true),
		CreatedAt: r.time(ColCreatedAt),
	}
	if err := r.result(); err != nil {
		return models.Asset{}, err
	}
	return a, nil
}

// AssetToRow converts an Asset into an insertable row.
func AssetToRow(a models.Asset) models.Row {
	return models.Row{
		ColSymbol:   a.Symbol,
		ColName:     a.Name,
		ColCategory: string(a.Category),
		ColExchange: optString(a.Exchange),
		ColSector:   optString(a.Sector),
		ColIsActive: a.IsActive,
	}
}

// AssetPatchToRow converts the present fields of an AssetPatch into a partial
// row.
func AssetPatchToRow(p models.AssetPatch) models.Row {
	row := models.Row{}
	if p.Symbol != nil {
		row[ColSymbol] = *p.Symbol
	}
	if p.Name != nil {
		row[ColName] = *p.Name
	}
	if p.Category != nil {
		row[ColCategory] = string(*p.Category)
	}
	if p.Exchange != nil {
		row[ColExchange] = optString(*p.Exchange)
	}
	if p.Sector != nil {
		row[ColSector] = optString(*p.Sector)
	}
	if p.IsActive != nil {
		row[ColIsActive] = *p.IsActive
	}
	return row
}
