package models

import "time"

// Direction is the side of a trade.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// EmotionalState records how the trader felt when taking the trade.
type EmotionalState string

const (
	EmotionConfident  EmotionalState = "confident"
	EmotionNervous    EmotionalState = "nervous"
	EmotionNeutral    EmotionalState = "neutral"
	EmotionExcited    EmotionalState = "excited"
	EmotionFrustrated EmotionalState = "frustrated"
)

// ValidDirections is the set of allowed direction values.
var ValidDirections = map[Direction]bool{
	DirectionLong:  true,
	DirectionShort: true,
}

// ValidEmotionalStates is the set of allowed emotional state values.
var ValidEmotionalStates = map[EmotionalState]bool{
	EmotionConfident:  true,
	EmotionNervous:    true,
	EmotionNeutral:    true,
	EmotionExcited:    true,
	EmotionFrustrated: true,
}

// Trade is a single journaled trade. A closed trade without PnL is valid
// but incomplete and contributes nothing to the balance.
type Trade struct {
	ID               string         `json:"id"`
	Date             string         `json:"date"`
	Time             string         `json:"time"`
	Asset            string         `json:"asset"`
	Direction        Direction      `json:"direction"`
	EntryPrice       float64        `json:"entryPrice"`
	ExitPrice        *float64       `json:"exitPrice,omitempty"`
	PositionSize     float64        `json:"positionSize"`
	Strategy         string         `json:"strategy"`
	Reasoning        string         `json:"reasoning"`
	MarketConditions string         `json:"marketConditions"`
	Tags             []string       `json:"tags"`
	Screenshots      []string       `json:"screenshots"`
	IsOpen           bool           `json:"isOpen"`
	PnL              *float64       `json:"pnl,omitempty"`
	Fees             float64        `json:"fees"`
	EmotionalState   EmotionalState `json:"emotionalState"`
	CreatedAt        time.Time      `json:"createdAt,omitzero"`
}

// Realized reports whether the trade is closed with a defined result.
func (t Trade) Realized() bool {
	return !t.IsOpen && t.PnL != nil
}

// Clone returns a copy that shares no slices or pointers with t.
func (t Trade) Clone() Trade {
	c := t
	c.Tags = cloneStrings(t.Tags)
	c.Screenshots = cloneStrings(t.Screenshots)
	c.ExitPrice = cloneFloat(t.ExitPrice)
	c.PnL = cloneFloat(t.PnL)
	return c
}

// TradePatch carries the fields of a partial trade update. Nil fields are
// left untouched on the remote side.
type TradePatch struct {
	Date             *string         `json:"date,omitempty"`
	Time             *string         `json:"time,omitempty"`
	Asset            *string         `json:"asset,omitempty"`
	Direction        *Direction      `json:"direction,omitempty"`
	EntryPrice       *float64        `json:"entryPrice,omitempty"`
	ExitPrice        *float64        `json:"exitPrice,omitempty"`
	PositionSize     *float64        `json:"positionSize,omitempty"`
	Strategy         *string         `json:"strategy,omitempty"`
	Reasoning        *string         `json:"reasoning,omitempty"`
	MarketConditions *string         `json:"marketConditions,omitempty"`
	Tags             *[]string       `json:"tags,omitempty"`
	Screenshots      *[]string       `json:"screenshots,omitempty"`
	IsOpen           *bool           `json:"isOpen,omitempty"`
	PnL              *float64        `json:"pnl,omitempty"`
	Fees             *float64        `json:"fees,omitempty"`
	EmotionalState   *EmotionalState `json:"emotionalState,omitempty"`
}

// Apply returns t with every non-nil patch field written over it.
func (p TradePatch) Apply(t Trade) Trade {
	t = t.Clone()
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Time != nil {
		t.Time = *p.Time
	}
	if p.Asset != nil {
		t.Asset = *p.Asset
	}
	if p.Direction != nil {
		t.Direction = *p.Direction
	}
	if p.EntryPrice != nil {
		t.EntryPrice = *p.EntryPrice
	}
	if p.ExitPrice != nil {
		t.ExitPrice = cloneFloat(p.ExitPrice)
	}
	if p.PositionSize != nil {
		t.PositionSize = *p.PositionSize
	}
	if p.Strategy != nil {
		t.Strategy = *p.Strategy
	}
	if p.Reasoning != nil {
		t.Reasoning = *p.Reasoning
	}
	if p.MarketConditions != nil {
		t.MarketConditions = *p.MarketConditions
	}
	if p.Tags != nil {
		t.Tags = cloneStrings(*p.Tags)
	}
	if p.Screenshots != nil {
		t.Screenshots = cloneStrings(*p.Screenshots)
	}
	if p.IsOpen != nil {
		t.IsOpen = *p.IsOpen
	}
	if p.PnL != nil {
		t.PnL = cloneFloat(p.PnL)
	}
	if p.Fees != nil {
		t.Fees = *p.Fees
	}
	if p.EmotionalState != nil {
		t.EmotionalState = *p.EmotionalState
	}
	return t
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// Float returns a pointer to v. Convenience for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}
