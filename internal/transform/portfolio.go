package transform

import (
	"fmt"

	"github.com/bobmcallan/tradejournal/internal/models"
)

// PortfolioFromRow converts a portfolio_settings row into a Portfolio. The
// deposit and withdrawal sequences live in the transactions table and are
// left empty here.
func PortfolioFromRow(row models.Row) (models.Portfolio, error) {
	def := models.DefaultPortfolio()
	r := newReader(models.TablePortfolioSettings, row)
	p := models.Portfolio{
		InitialCapital:            r.numOr(ColInitialCapital, def.InitialCapital),
		CurrentBalance:            r.numOr(ColCurrentBalance, def.CurrentBalance),
		MaxDailyLoss:              r.numOr(ColMaxDailyLoss, def.MaxDailyLoss),
		MaxDailyLossPercentage:    r.numOr(ColMaxDailyLossPercentage, def.MaxDailyLossPercentage),
		MaxPositionSize:           r.numOr(ColMaxPositionSize, def.MaxPositionSize),
		MaxPositionSizePercentage: r.numOr(ColMaxPositionSizePercentage, def.MaxPositionSizePercentage),
		RiskRewardRatio:           r.numOr(ColRiskRewardRatio, def.RiskRewardRatio),
		Currency:                  r.strOr(ColCurrency, def.Currency),
		Timezone:                  r.strOr(ColTimezone, def.Timezone),
		Deposits:                  []models.Transaction{},
		Withdrawals:               []models.Transaction{},
	}
	if err := r.result(); err != nil {
		return models.Portfolio{}, err
	}
	return p, nil
}

// PortfolioToRow converts the scalar fields of a Portfolio into a row.
func PortfolioToRow(p models.Portfolio) models.Row {
	return models.Row{
		ColInitialCapital:            p.InitialCapital,
		ColCurrentBalance:            p.CurrentBalance,
		ColMaxDailyLoss:              p.MaxDailyLoss,
		ColMaxDailyLossPercentage:    p.MaxDailyLossPercentage,
		ColMaxPositionSize:           p.MaxPositionSize,
		ColMaxPositionSizePercentage: p.MaxPositionSizePercentage,
		ColRiskRewardRatio:           p.RiskRewardRatio,
		ColCurrency:                  p.Currency,
		ColTimezone:                  p.Timezone,
	}
}

// TransactionFromRow converts a transactions row into a Transaction.
func TransactionFromRow(row models.Row) (models.Transaction, error) {
	r := newReader(models.TableTransactions, row)
	tx := models.Transaction{
		ID:          r.id(),
		Date:        r.str(ColDate),
		Amount:      r.num(ColAmount),
		Type:        models.TransactionType(r.str(ColType)),
		Description: r.str(ColDescription),
		CreatedAt:   r.time(ColCreatedAt),
	}
	if r.err == nil && tx.Type != models.TransactionDeposit && tx.Type != models.TransactionWithdrawal {
		r.fail(ColType, row[ColType], fmt.Errorf("unknown transaction type %q", tx.Type))
	}
	if err := r.result(); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

// TransactionToRow converts a Transaction into an insertable row.
func TransactionToRow(tx models.Transaction) models.Row {
	return models.Row{
		ColDate:        tx.Date,
		ColAmount:      tx.Amount,
		ColType:        string(tx.Type),
		ColDescription: optString(tx.Description),
	}
}
