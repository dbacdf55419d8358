package server

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bobmcallan/tradejournal/internal/services/impexp"
)

// maxImportSize bounds the body of POST /api/import.
const maxImportSize = 32 << 20

// handleExport handles GET /api/export?format=json|msgpack as a file download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	format, err := impexp.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, ok := s.journalFor(w, r)
	if !ok {
		return
	}

	now := time.Now()
	data, err := impexp.Encode(c.Export(now), format)
	if err != nil {
		s.logger.Error().Err(err).Msg("Export encoding failed")
		WriteError(w, http.StatusInternalServerError, "Export failed")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", impexp.FileName(now, format)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleImport handles POST /api/import. The body is a JSON or MessagePack
// export; kinds absent from it are left untouched. Responds with the
// reloaded snapshot.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if r.Body == nil {
		WriteError(w, http.StatusBadRequest, "Request body is required")
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		WriteError(w, http.StatusRequestEntityTooLarge, "Import too large")
		return
	}

	doc, err := impexp.Decode(data, impexp.Detect(data))
	if err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "invalid_import")
		return
	}

	c, ok := s.journalFor(w, r)
	if !ok {
		return
	}
	if err := c.ImportDocument(r.Context(), doc); err != nil {
		s.logger.Error().Err(err).Str("owner", c.Owner()).Msg("Import failed, store may be partially overwritten")
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, c.Snapshot())
}

// handleReset handles POST /api/reset, deleting every record for the owner.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if r.URL.Query().Get("confirm") != "true" {
		WriteError(w, http.StatusBadRequest, "reset requires confirm=true")
		return
	}
	c, ok := s.journalFor(w, r)
	if !ok {
		return
	}
	snap, err := c.Reset(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, snap)
}

// handleSummary handles GET /api/summary.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	c, ok := s.journalFor(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, c.Summary())
}
