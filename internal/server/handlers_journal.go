package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/bobmcallan/tradejournal/internal/common"
	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/bobmcallan/tradejournal/internal/services/journal"
)

// journalFor returns the loaded cache for the request's owner: the token
// subject, or the configured tenant when auth is off.
func (s *Server) journalFor(w http.ResponseWriter, r *http.Request) (*journal.Cache, bool) {
	owner := common.ResolveUserID(r.Context(), s.app.Config.Tenant.ID)
	c, err := s.app.Registry.Get(r.Context(), owner)
	if err != nil {
		s.logger.Error().Err(err).Str("owner", owner).Msg("Failed to load journal")
		WriteErrorWithCode(w, http.StatusServiceUnavailable, "Journal unavailable: "+err.Error(), "load_failed")
		return nil, false
	}
	return c, true
}

// handleSnapshot handles GET /api/snapshot.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	c, ok := s.journalFor(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, c.Snapshot())
}

// handleRefresh handles POST /api/refresh, reloading the cache from the store.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	c, ok := s.journalFor(w, r)
	if !ok {
		return
	}
	snap, err := c.LoadAll(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, snap)
}

// handleEvents handles GET /api/events, upgrading to a websocket that
// streams the owner's change events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	owner := common.ResolveUserID(r.Context(), s.app.Config.Tenant.ID)
	s.hub.ServeWS(w, r, owner)
}

// resource binds one cached collection to its REST routes:
// GET and POST on the collection, PATCH and DELETE on /{id}.
type resource[T any, P any] struct {
	prefix string
	list   func(*journal.Cache) []T
	add    func(context.Context, *journal.Cache, T) (T, error)
	update func(context.Context, *journal.Cache, string, P) (T, error)
	remove func(context.Context, *journal.Cache, string) error
}

func serveResource[T any, P any](s *Server, res resource[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.Trim(strings.TrimPrefix(r.URL.Path, res.prefix), "/")
		if strings.Contains(id, "/") {
			WriteError(w, http.StatusNotFound, "Not found")
			return
		}

		if id == "" {
			if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
				return
			}
		} else if !RequireMethod(w, r, http.MethodPatch, http.MethodDelete) {
			return
		}

		c, ok := s.journalFor(w, r)
		if !ok {
			return
		}

		switch {
		case id == "" && r.Method == http.MethodGet:
			WriteJSON(w, http.StatusOK, res.list(c))

		case id == "" && r.Method == http.MethodPost:
			var v T
			if !DecodeJSON(w, r, &v) {
				return
			}
			created, err := res.add(r.Context(), c, v)
			if err != nil {
				WriteServiceError(w, err)
				return
			}
			WriteJSON(w, http.StatusCreated, created)

		case r.Method == http.MethodPatch:
			var patch P
			if !DecodeJSON(w, r, &patch) {
				return
			}
			updated, err := res.update(r.Context(), c, id, patch)
			if err != nil {
				WriteServiceError(w, err)
				return
			}
			WriteJSON(w, http.StatusOK, updated)

		case r.Method == http.MethodDelete:
			if err := res.remove(r.Context(), c, id); err != nil {
				WriteServiceError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

func (s *Server) tradeRoutes() http.HandlerFunc {
	return serveResource(s, resource[models.Trade, models.TradePatch]{
		prefix: "/api/trades",
		list:   (*journal.Cache).Trades,
		add: func(ctx context.Context, c *journal.Cache, t models.Trade) (models.Trade, error) {
			created, err := c.AddTrade(ctx, t)
			if err != nil && created.ID != "" {
				// The trade was stored but the balance write failed; the next
				// load reconciles it.
				s.logger.Warn().Err(err).Str("trade_id", created.ID).Msg("Trade stored without balance update")
				return created, nil
			}
			return created, err
		},
		update: (*journal.Cache).UpdateTrade,
		remove: (*journal.Cache).RemoveTrade,
	})
}

func (s *Server) assetRoutes() http.HandlerFunc {
	return serveResource(s, resource[models.Asset, models.AssetPatch]{
		prefix: "/api/assets",
		list:   (*journal.Cache).Assets,
		add:    (*journal.Cache).AddAsset,
		update: (*journal.Cache).UpdateAsset,
		remove: (*journal.Cache).RemoveAsset,
	})
}

func (s *Server) goalRoutes() http.HandlerFunc {
	return serveResource(s, resource[models.Goal, models.GoalPatch]{
		prefix: "/api/goals",
		list:   (*journal.Cache).Goals,
		add:    (*journal.Cache).AddGoal,
		update: (*journal.Cache).UpdateGoal,
		remove: (*journal.Cache).RemoveGoal,
	})
}

func (s *Server) journalRoutes() http.HandlerFunc {
	return serveResource(s, resource[models.JournalEntry, models.JournalPatch]{
		prefix: "/api/journal",
		list:   (*journal.Cache).JournalEntries,
		add:    (*journal.Cache).AddJournalEntry,
		update: (*journal.Cache).UpdateJournalEntry,
		remove: (*journal.Cache).RemoveJournalEntry,
	})
}
