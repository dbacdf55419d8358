package transform

// Remote column names. This file is the only place the domain field to
// remote column mapping is declared.
const (
	ColID        = "id"
	ColCreatedAt = "created_at"
	ColUpdatedAt = "updated_at"

	// trades
	ColDate             = "date"
	ColTime             = "time"
	ColAsset            = "asset"
	ColDirection        = "direction"
	ColEntryPrice       = "entry_price"
	ColExitPrice        = "exit_price"
	ColPositionSize     = "position_size"
	ColStrategy         = "strategy"
	ColReasoning        = "reasoning"
	ColMarketConditions = "market_conditions"
	ColTags             = "tags"
	ColScreenshots      = "screenshots"
	ColIsOpen           = "is_open"
	ColPnL              = "pnl"
	ColFees             = "fees"
	ColEmotionalState   = "emotional_state"

	// assets
	ColSymbol   = "symbol"
	ColName     = "name"
	ColCategory = "category"
	ColExchange = "exchange"
	ColSector   = "sector"
	ColIsActive = "is_active"

	// goals
	ColType        = "type"
	ColTarget      = "target"
	ColCurrent     = "current_value"
	ColDeadline    = "deadline"
	ColDescription = "description"
	ColPriority    = "priority"

	// journal_entries
	ColTitle   = "title"
	ColContent = "content"
	ColMood    = "mood"

	// transactions
	ColAmount = "amount"

	// portfolio_settings
	ColInitialCapital            = "initial_capital"
	ColCurrentBalance            = "current_balance"
	ColMaxDailyLoss              = "max_daily_loss"
	ColMaxDailyLossPercentage    = "max_daily_loss_percentage"
	ColMaxPositionSize           = "max_position_size"
	ColMaxPositionSizePercentage = "max_position_size_percentage"
	ColRiskRewardRatio           = "risk_reward_ratio"
	ColCurrency                  = "currency"
	ColTimezone                  = "timezone"

	// user_settings
	ColTheme          = "theme"
	ColDateFormat     = "date_format"
	ColNotifications  = "notifications"
	ColRiskManagement = "risk_management"
	ColTradingHours   = "trading_hours"
)
