package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/bobmcallan/tradejournal/internal/common"
)

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Auth
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/validate", s.handleAuthValidate)

	// Cache
	mux.HandleFunc("/api/snapshot", s.handleSnapshot)
	mux.HandleFunc("/api/refresh", s.handleRefresh)
	mux.HandleFunc("/api/events", s.handleEvents)

	// Collections
	mux.HandleFunc("/api/trades", s.tradeRoutes())
	mux.HandleFunc("/api/trades/", s.tradeRoutes())
	mux.HandleFunc("/api/assets", s.assetRoutes())
	mux.HandleFunc("/api/assets/", s.assetRoutes())
	mux.HandleFunc("/api/goals", s.goalRoutes())
	mux.HandleFunc("/api/goals/", s.goalRoutes())
	mux.HandleFunc("/api/journal", s.journalRoutes())
	mux.HandleFunc("/api/journal/", s.journalRoutes())

	// Singletons
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/portfolio/deposits", s.handleDeposit)
	mux.HandleFunc("/api/portfolio/withdrawals", s.handleWithdrawal)
	mux.HandleFunc("/api/portfolio/history", s.handlePortfolioHistory)
	mux.HandleFunc("/api/portfolio/chart", s.handlePortfolioChart)
	mux.HandleFunc("/api/settings", s.handleSettings)

	// Data management
	mux.HandleFunc("/api/export", s.handleExport)
	mux.HandleFunc("/api/import", s.handleImport)
	mux.HandleFunc("/api/reset", s.handleReset)
	mux.HandleFunc("/api/summary", s.handleSummary)
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"backend": s.app.Store.Backend(),
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	info := common.GetVersionInfo()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version":    info.Version,
		"build":      info.Build,
		"commit":     info.Commit,
		"go_version": runtime.Version(),
	})
}
