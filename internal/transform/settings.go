package transform

import "github.com/bobmcallan/tradejournal/internal/models"

// UserSettingsFromRow converts a user_settings row into UserSettings. Nested
// objects may arrive as maps or JSON text; absent ones keep their defaults.
func UserSettingsFromRow(row models.Row) (models.UserSettings, error) {
	def := models.DefaultUserSettings()
	r := newReader(models.TableUserSettings, row)
	s := models.UserSettings{
		Theme:          models.Theme(r.strOr(ColTheme, string(def.Theme))),
		Currency:       r.strOr(ColCurrency, def.Currency),
		Timezone:       r.strOr(ColTimezone, def.Timezone),
		DateFormat:     r.strOr(ColDateFormat, def.DateFormat),
		Notifications:  def.Notifications,
		RiskManagement: def.RiskManagement,
		TradingHours:   def.TradingHours,
	}
	r.object(ColNotifications, &s.Notifications)
	r.object(ColRiskManagement, &s.RiskManagement)
	r.object(ColTradingHours, &s.TradingHours)
	if err := r.result(); err != nil {
		return models.UserSettings{}, err
	}
	return s, nil
}

// UserSettingsToRow converts UserSettings into a row. Nested objects are
// written as maps so document stores keep them structured.
func UserSettingsToRow(s models.UserSettings) models.Row {
	return models.Row{
		ColTheme:      string(s.Theme),
		ColCurrency:   s.Currency,
		ColTimezone:   s.Timezone,
		ColDateFormat: s.DateFormat,
		ColNotifications: map[string]any{
			"dailyLossLimit": s.Notifications.DailyLossLimit,
			"goalProgress":   s.Notifications.GoalProgress,
			"tradeReminders": s.Notifications.TradeReminders,
		},
		ColRiskManagement: map[string]any{
			"maxDailyLoss":              s.RiskManagement.MaxDailyLoss,
			"maxDailyLossPercentage":    s.RiskManagement.MaxDailyLossPercentage,
			"maxPositionSize":           s.RiskManagement.MaxPositionSize,
			"maxPositionSizePercentage": s.RiskManagement.MaxPositionSizePercentage,
			"riskRewardRatio":           s.RiskManagement.RiskRewardRatio,
			"stopLossRequired":          s.RiskManagement.StopLossRequired,
			"takeProfitRequired":        s.RiskManagement.TakeProfitRequired,
		},
		ColTradingHours: map[string]any{
			"start":    s.TradingHours.Start,
			"end":      s.TradingHours.End,
			"timezone": s.TradingHours.Timezone,
		},
	}
}
