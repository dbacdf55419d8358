package transform

import "github.com/bobmcallan/tradejournal/internal/models"

// TradeFromRow converts a trades row into a Trade.
func TradeFromRow(row models.Row) (models.Trade, error) {
	r := newReader(models.TableTrades, row)
	t := models.Trade{
		ID:               r.id(),
		Date:             r.str(ColDate),
		Time:             r.str(ColTime),
		Asset:            r.str(ColAsset),
		Direction:        models.Direction(r.str(ColDirection)),
		EntryPrice:       r.num(ColEntryPrice),
		ExitPrice:        r.optNum(ColExitPrice),
		PositionSize:     r.num(ColPositionSize),
		Strategy:         r.str(ColStrategy),
		Reasoning:        r.str(ColReasoning),
		MarketConditions: r.str(ColMarketConditions),
		Tags:             r.strings(ColTags),
		Screenshots:      r.strings(ColScreenshots),
		IsOpen:           r.boolOr(ColIsOpen, true),
		PnL:              r.optNum(ColPnL),
		Fees:             r.numOr(ColFees, 0),
		EmotionalState:   models.EmotionalState(r.strOr(ColEmotionalState, string(models.EmotionNeutral))),
		CreatedAt:        r.time(ColCreatedAt),
	}
	if err := r.result(); err != nil {
		return models.Trade{}, err
	}
	return t, nil
}

// TradeToRow converts a Trade into an insertable row.
func TradeToRow(t models.Trade) models.Row {
	emotion := t.EmotionalState
	if emotion == "" {
		emotion = models.EmotionNeutral
	}
	return models.Row{
		ColDate:             t.Date,
		ColTime:             t.Time,
		ColAsset:            t.Asset,
		ColDirection:        string(t.Direction),
		ColEntryPrice:       t.EntryPrice,
		ColExitPrice:        optFloat(t.ExitPrice),
		ColPositionSize:     t.PositionSize,
		ColStrategy:         t.Strategy,
		ColReasoning:        t.Reasoning,
		ColMarketConditions: t.MarketConditions,
		ColTags:             stringList(t.Tags),
		ColScreenshots:      stringList(t.Screenshots),
		ColIsOpen:           t.IsOpen,
		ColPnL:              optFloat(t.PnL),
		ColFees:             t.Fees,
		ColEmotionalState:   string(emotion),
	}
}

// TradePatchToRow converts the present fields of a TradePatch into a partial
// row.
func TradePatchToRow(p models.TradePatch) models.Row {
	row := models.Row{}
	if p.Date != nil {
		row[ColDate] = *p.Date
	}
	if p.Time != nil {
		row[ColTime] = *p.Time
	}
	if p.Asset != nil {
		row[ColAsset] = *p.Asset
	}
	if p.Direction != nil {
		row[ColDirection] = string(*p.Direction)
	}
	if p.EntryPrice != nil {
		row[ColEntryPrice] = *p.EntryPrice
	}
	if p.ExitPrice != nil {
		row[ColExitPrice] = *p.ExitPrice
	}
	if p.PositionSize != nil {
		row[ColPositionSize] = *p.PositionSize
	}
	if p.Strategy != nil {
		row[ColStrategy] = *p.Strategy
	}
	if p.Reasoning != nil {
		row[ColReasoning] = *p.Reasoning
	}
	if p.MarketConditions != nil {
		row[ColMarketConditions] = *p.MarketConditions
	}
	if p.Tags != nil {
		row[ColTags] = stringList(*p.Tags)
	}
	if p.Screenshots != nil {
		row[ColScreenshots] = stringList(*p.Screenshots)
	}
	if p.IsOpen != nil {
		row[ColIsOpen] = *p.IsOpen
	}
	if p.PnL != nil {
		row[ColPnL] = *p.PnL
	}
	if p.Fees != nil {
		row[ColFees] = *p.Fees
	}
	if p.EmotionalState != nil {
		row[ColEmotionalState] = string(*p.EmotionalState)
	}
	return row
}
