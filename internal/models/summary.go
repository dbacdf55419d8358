package models

// DataSummary aggregates counts and trade statistics for one owner.
type DataSummary struct {
	TotalTrades       int     `json:"totalTrades"`
	OpenTrades        int     `json:"openTrades"`
	ClosedTrades      int     `json:"closedTrades"`
	TotalDeposits     float64 `json:"totalDeposits"`
	TotalWithdrawals  float64 `json:"totalWithdrawals"`
	TotalTransactions int     `json:"totalTransactions"`
	TotalGoals        int     `json:"totalGoals"`
	ActiveGoals       int     `json:"activeGoals"`
	CompletedGoals    int     `json:"completedGoals"`
	TotalAssets       int     `json:"totalAssets"`
	ActiveAssets      int     `json:"activeAssets"`
	JournalEntries    int     `json:"journalEntries"`

	RealizedPnL      float64 `json:"realizedPnl"`
	TotalFees        float64 `json:"totalFees"`
	WinRate          float64 `json:"winRate"`
	MeanTradeNet     float64 `json:"meanTradeNet"`
	StdDevTradeNet   float64 `json:"stdDevTradeNet"`
	CurrentBalance   float64 `json:"currentBalance"`
	FormattedBalance string  `json:"formattedBalance"`
}
