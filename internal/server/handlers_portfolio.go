package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/bobmcallan/tradejournal/internal/services/balance"
	"github.com/bobmcallan/tradejournal/internal/services/journal"
)

// handlePortfolio handles GET, PUT and PATCH /api/portfolio. PUT replaces the
// portfolio; its deposits and withdrawals must extend the cached ones.
// PATCH only touches scalar fields.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodPatch) {
		return
	}
	c, ok := s.journalFor(w, r)
	if !ok {
		return
	}

	var update journal.PortfolioUpdate
	switch r.Method {
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, c.Portfolio())
		return
	case http.MethodPut:
		var p models.Portfolio
		if !DecodeJSON(w, r, &p) {
			return
		}
		update = journal.ReplacePortfolio(p)
	case http.MethodPatch:
		var patch models.PortfolioPatch
		if !DecodeJSON(w, r, &patch) {
			return
		}
		update = journal.PatchPortfolio(patch)
	}

	p, err := c.SetPortfolio(r.Context(), update)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

// handleDeposit handles POST /api/portfolio/deposits.
func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	s.handleTransaction(w, r, (*journal.Cache).AddDeposit)
}

// handleWithdrawal handles POST /api/portfolio/withdrawals.
func (s *Server) handleWithdrawal(w http.ResponseWriter, r *http.Request) {
	s.handleTransaction(w, r, (*journal.Cache).AddWithdrawal)
}

func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request,
	add func(*journal.Cache, context.Context, models.Transaction) (models.Portfolio, error)) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var tx models.Transaction
	if !DecodeJSON(w, r, &tx) {
		return
	}
	if tx.Amount <= 0 {
		WriteError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if tx.Date == "" {
		tx.Date = time.Now().Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, tx.Date); err != nil {
		WriteError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	c, ok := s.journalFor(w, r)
	if !ok {
		return
	}
	p, err := add(c, r.Context(), tx)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, p)
}

// handlePortfolioHistory handles GET /api/portfolio/history.
func (s *Server) handlePortfolioHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	c, ok := s.journalFor(w, r)
	if !ok {
		return
	}
	snap := c.Snapshot()
	WriteJSON(w, http.StatusOK, balance.History(snap.Portfolio, snap.Trades))
}

// handlePortfolioChart handles GET /api/portfolio/chart, returning a PNG of
// the balance over time.
func (s *Server) handlePortfolioChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	c, ok := s.journalFor(w, r)
	if !ok {
		return
	}
	snap := c.Snapshot()
	points := balance.History(snap.Portfolio, snap.Trades)

	png, err := renderBalanceChart(points, snap.Portfolio.InitialCapital, snap.Portfolio.Currency, time.Now().UTC())
	if err != nil {
		s.logger.Warn().Err(err).Msg("Balance chart render failed")
		WriteError(w, http.StatusInternalServerError, "Chart render failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleSettings handles GET, PUT and PATCH /api/settings.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodPatch) {
		return
	}
	c, ok := s.journalFor(w, r)
	if !ok {
		return
	}

	var update journal.SettingsUpdate
	switch r.Method {
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, c.UserSettings())
		return
	case http.MethodPut:
		var v models.UserSettings
		if !DecodeJSON(w, r, &v) {
			return
		}
		update = journal.ReplaceSettings(v)
	case http.MethodPatch:
		var patch models.SettingsPatch
		if !DecodeJSON(w, r, &patch) {
			return
		}
		update = journal.PatchSettings(patch)
	}

	if theme := update(c.UserSettings()).Theme; !models.ValidThemes[theme] {
		WriteError(w, http.StatusBadRequest, "theme must be light, dark or auto")
		return
	}

	settings, err := c.SetUserSettings(r.Context(), update)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, settings)
}
