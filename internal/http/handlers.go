package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"ledger/internal/core"
	"ledger/internal/reports"
	"ledger/internal/storage"
)

type createEntryRequest struct {
	Type       string `json:"type"`
	Amount     string `json:"amount"`
	Date       string `json:"date"`
	CategoryID int64  `json:"category_id"`
	Note       string `json:"note"`
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listEntries(w, r)
	case http.MethodPost:
		s.createEntry(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := reports.Filter{Range: rng}
	if kind := r.URL.Query().Get("type"); kind != "" {
		t := core.EntryType(kind)
		if err := t.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "type must be income or expense")
			return
		}
		filter.Type = t
	}

	entries, err := s.source.FetchEntries(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list entries", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list entries")
		return
	}

	resp := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount must be a positive decimal")
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be yyyy-MM-dd")
		return
	}

	entry := core.Entry{
		Type:   core.EntryType(req.Type),
		Amount: core.Money{Cents: cents},
		Date:   date,
		Note:   strings.TrimSpace(req.Note),
	}
	if req.CategoryID > 0 {
		cat, err := s.categories.GetCategory(r.Context(), req.CategoryID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusBadRequest, "unknown category")
				return
			}
			slog.ErrorContext(r.Context(), "failed to load category", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load category")
			return
		}
		entry.Category = &cat
	}
	if err := entry.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.entries.CreateEntry(r.Context(), entry)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create entry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create entry")
		return
	}

	s.invalidateReadCaches()
	writeJSON(w, http.StatusCreated, toEntryResponse(created))
}

func (s *Server) handleEntryByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/api/entries/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	if err := s.entries.DeleteEntry(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		slog.ErrorContext(r.Context(), "failed to delete entry", "entry_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete entry")
		return
	}

	s.invalidateReadCaches()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	kind := core.EntryType(r.URL.Query().Get("type"))
	if kind == "" {
		kind = core.Expense
	}
	if err := kind.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "type must be income or expense")
		return
	}

	cats, err := s.categories.ListCategories(r.Context(), kind)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list categories", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	resp := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		resp = append(resp, categoryResponse{ID: c.ID, Name: c.Name, Color: c.Color})
	}
	writeJSON(w, http.StatusOK, resp)
}
