package models

import "time"

// TransactionType distinguishes cash flowing in from cash flowing out.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
)

// Transaction is a deposit to or withdrawal from the trading account.
// Amount is always positive; Type carries the sign.
type Transaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitzero"`
}

// Portfolio is the per-owner account singleton. Deposits and Withdrawals are
// held oldest first and only ever grow.
type Portfolio struct {
	InitialCapital            float64       `json:"initialCapital"`
	CurrentBalance            float64       `json:"currentBalance"`
	MaxDailyLoss              float64       `json:"maxDailyLoss"`
	MaxDailyLossPercentage    float64       `json:"maxDailyLossPercentage"`
	MaxPositionSize           float64       `json:"maxPositionSize"`
	MaxPositionSizePercentage float64       `json:"maxPositionSizePercentage"`
	RiskRewardRatio           float64       `json:"riskRewardRatio"`
	Currency                  string        `json:"currency"`
	Timezone                  string        `json:"timezone"`
	Deposits                  []Transaction `json:"deposits"`
	Withdrawals               []Transaction `json:"withdrawals"`
}

// DefaultPortfolio returns the portfolio created for a new owner.
func DefaultPortfolio() Portfolio {
	return Portfolio{
		InitialCapital:            10000,
		CurrentBalance:            10000,
		MaxDailyLoss:              500,
		MaxDailyLossPercentage:    5,
		MaxPositionSize:           1000,
		MaxPositionSizePercentage: 10,
		RiskRewardRatio:           2,
		Currency:                  "USD",
		Timezone:                  "America/New_York",
		Deposits:                  []Transaction{},
		Withdrawals:               []Transaction{},
	}
}

// Clone returns a copy that shares no slices with p.
func (p Portfolio) Clone() Portfolio {
	c := p
	c.Deposits = append([]Transaction(nil), p.Deposits...)
	c.Withdrawals = append([]Transaction(nil), p.Withdrawals...)
	if c.Deposits == nil {
		c.Deposits = []Transaction{}
	}
	if c.Withdrawals == nil {
		c.Withdrawals = []Transaction{}
	}
	return c
}

// PortfolioPatch carries the scalar fields of a partial portfolio update.
type PortfolioPatch struct {
	InitialCapital            *float64 `json:"initialCapital,omitempty"`
	CurrentBalance            *float64 `json:"currentBalance,omitempty"`
	MaxDailyLoss              *float64 `json:"maxDailyLoss,omitempty"`
	MaxDailyLossPercentage    *float64 `json:"maxDailyLossPercentage,omitempty"`
	MaxPositionSize           *float64 `json:"maxPositionSize,omitempty"`
	MaxPositionSizePercentage *float64 `json:"maxPositionSizePercentage,omitempty"`
	RiskRewardRatio           *float64 `json:"riskRewardRatio,omitempty"`
	Currency                  *string  `json:"currency,omitempty"`
	Timezone                  *string  `json:"timezone,omitempty"`
}

// Apply returns p with every non-nil patch field written over it.
func (pp PortfolioPatch) Apply(p Portfolio) Portfolio {
	p = p.Clone()
	if pp.InitialCapital != nil {
		p.InitialCapital = *pp.InitialCapital
	}
	if pp.CurrentBalance != nil {
		p.CurrentBalance = *pp.CurrentBalance
	}
	if pp.MaxDailyLoss != nil {
		p.MaxDailyLoss = *pp.MaxDailyLoss
	}
	if pp.MaxDailyLossPercentage != nil {
		p.MaxDailyLossPercentage = *pp.MaxDailyLossPercentage
	}
	if pp.MaxPositionSize != nil {
		p.MaxPositionSize = *pp.MaxPositionSize
	}
	if pp.MaxPositionSizePercentage != nil {
		p.MaxPositionSizePercentage = *pp.MaxPositionSizePercentage
	}
	if pp.RiskRewardRatio != nil {
		p.RiskRewardRatio = *pp.RiskRewardRatio
	}
	if pp.Currency != nil {
		p.Currency = *pp.Currency
	}
	if pp.Timezone != nil {
		p.Timezone = *pp.Timezone
	}
	return p
}
