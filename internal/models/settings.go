package models

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// ValidThemes is the set of allowed theme values.
var ValidThemes = map[Theme]bool{
	ThemeLight: true,
	ThemeDark:  true,
	ThemeAuto:  true,
}

// NotificationSettings toggles individual reminders.
type NotificationSettings struct {
	DailyLossLimit bool `json:"dailyLossLimit"`
	GoalProgress   bool `json:"goalProgress"`
	TradeReminders bool `json:"tradeReminders"`
}

// RiskManagement mirrors the risk fields of Portfolio. The two are kept as
// independent copies.
type RiskManagement struct {
	MaxDailyLoss              float64 `json:"maxDailyLoss"`
	MaxDailyLossPercentage    float64 `json:"maxDailyLossPercentage"`
	MaxPositionSize           float64 `json:"maxPositionSize"`
	MaxPositionSizePercentage float64 `json:"maxPositionSizePercentage"`
	RiskRewardRatio           float64 `json:"riskRewardRatio"`
	StopLossRequired          bool    `json:"stopLossRequired"`
	TakeProfitRequired        bool    `json:"takeProfitRequired"`
}

// TradingHours is the session window the trader works in.
type TradingHours struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Timezone string `json:"timezone"`
}

// UserSettings is the per-owner preferences singleton.
type UserSettings struct {
	Theme          Theme                `json:"theme"`
	Currency       string               `json:"currency"`
	Timezone       string               `json:"timezone"`
	DateFormat     string               `json:"dateFormat"`
	Notifications  NotificationSettings `json:"notifications"`
	RiskManagement RiskManagement       `json:"riskManagement"`
	TradingHours   TradingHours         `json:"tradingHours"`
}

// DefaultNotifications returns the notification toggles for a new owner.
func DefaultNotifications() NotificationSettings {
	return NotificationSettings{DailyLossLimit: true, GoalProgress: true, TradeReminders: false}
}

// DefaultRiskManagement returns risk settings matching DefaultPortfolio.
func DefaultRiskManagement() RiskManagement {
	p := DefaultPortfolio()
	return RiskManagement{
		MaxDailyLoss:              p.MaxDailyLoss,
		MaxDailyLossPercentage:    p.MaxDailyLossPercentage,
		MaxPositionSize:           p.MaxPositionSize,
		MaxPositionSizePercentage: p.MaxPositionSizePercentage,
		RiskRewardRatio:           p.RiskRewardRatio,
	}
}

// DefaultTradingHours returns the New York cash session.
func DefaultTradingHours() TradingHours {
	return TradingHours{Start: "09:30", End: "16:00", Timezone: "America/New_York"}
}

// DefaultUserSettings returns the settings created for a new owner.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		Theme:          ThemeLight,
		Currency:       "USD",
		Timezone:       "America/New_York",
		DateFormat:     "MM/DD/YYYY",
		Notifications:  DefaultNotifications(),
		RiskManagement: DefaultRiskManagement(),
		TradingHours:   DefaultTradingHours(),
	}
}

// SettingsPatch carries the fields of a partial settings update. Nested
// objects are replaced whole.
type SettingsPatch struct {
	Theme          *Theme                `json:"theme,omitempty"`
	Currency       *string               `json:"currency,omitempty"`
	Timezone       *string               `json:"timezone,omitempty"`
	DateFormat     *string               `json:"dateFormat,omitempty"`
	Notifications  *NotificationSettings `json:"notifications,omitempty"`
	RiskManagement *RiskManagement       `json:"riskManagement,omitempty"`
	TradingHours   *TradingHours         `json:"tradingHours,omitempty"`
}

// Apply returns s with every non-nil patch field written over it.
func (p SettingsPatch) Apply(s UserSettings) UserSettings {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if p.Timezone != nil {
		s.Timezone = *p.Timezone
	}
	if p.DateFormat != nil {
		s.DateFormat = *p.DateFormat
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.RiskManagement != nil {
		s.RiskManagement = *p.RiskManagement
	}
	if p.TradingHours != nil {
		s.TradingHours = *p.TradingHours
	}
	return s
}
