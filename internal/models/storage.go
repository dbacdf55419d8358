package models

// Row is a record in the remote store's shape: snake_case keys and
// store-native values. Rows are produced and consumed by the transform
// package only.
type Row = map[string]any

// Remote table names.
const (
	TableTrades            = "trades"
	TableAssets            = "assets"
	TableGoals             = "goals"
	TableJournalEntries    = "journal_entries"
	TableTransactions      = "transactions"
	TablePortfolioSettings = "portfolio_settings"
	TableUserSettings      = "user_settings"
)

// CollectionTables lists the multi-row tables, in load order.
var CollectionTables = []string{
	TableTrades,
	TableAssets,
	TableGoals,
	TableJournalEntries,
	TableTransactions,
}

// SingletonTables lists the one-row-per-owner tables.
var SingletonTables = []string{
	TablePortfolioSettings,
	TableUserSettings,
}

// AllTables returns every remote table.
func AllTables() []string {
	out := append([]string{}, CollectionTables...)
	return append(out, SingletonTables...)
}
