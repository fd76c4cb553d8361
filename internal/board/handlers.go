package board

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"procurement/internal/api"
	"procurement/internal/columns"
	"procurement/internal/filter"
	"procurement/internal/query"
	"procurement/pkg/orderapi"
)

const maxPageSize = 500

type Handlers struct {
	Boards   *Registry
	Progress *ProgressTracker
}

func (h Handlers) board(w http.ResponseWriter, r *http.Request) (*Board, bool) {
	userID := api.UserIDFromContext(r.Context())
	if userID == "" {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
		return nil, false
	}
	b, err := h.Boards.Get(r.Context(), userID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to open board")
		return nil, false
	}
	return b, true
}

func respondView(w http.ResponseWriter, b *Board) {
	api.WriteJSON(w, http.StatusOK, b.View())
}

// Get returns the board. With ?settle=true a pending query is issued and awaited first.
func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	if settle, _ := strconv.ParseBool(r.URL.Query().Get("settle")); settle {
		b.Data().Flush()
		b.Data().Wait()
	}
	respondView(w, b)
}

type PageRequest struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
}

func (h Handlers) PatchPage(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	var req PageRequest
	if !api.DecodeJSON(w, r, &req) {
		return
	}
	if req.PageIndex < 0 || req.PageSize < 0 || req.PageSize > maxPageSize {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid pagination")
		return
	}
	b.Data().SetPage(req.PageIndex, req.PageSize)
	respondView(w, b)
}

type SortRequest struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

func (h Handlers) PatchSort(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	var req SortRequest
	if !api.DecodeJSON(w, r, &req) {
		return
	}
	dir, err := query.ParseDirection(req.Direction)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}
	if err := b.SetSort(strings.TrimSpace(req.Field), dir); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}
	respondView(w, b)
}

type SearchRequest struct {
	Search string `json:"search"`
}

func (h Handlers) PatchSearch(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	var req SearchRequest
	if !api.DecodeJSON(w, r, &req) {
		return
	}
	b.Data().SetSearch(req.Search)
	respondView(w, b)
}

func writeFilterError(w http.ResponseWriter, err error) {
	if errors.Is(err, filter.ErrUnknownDimension) {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
}

type ToggleRequest struct {
	ID filter.ChipID `json:"id"`
}

func (h Handlers) ToggleFilter(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	var req ToggleRequest
	if !api.DecodeJSON(w, r, &req) {
		return
	}
	if err := b.Filters().Toggle(filter.Key(chi.URLParam(r, "key")), req.ID); err != nil {
		writeFilterError(w, err)
		return
	}
	respondView(w, b)
}

type SelectionRequest struct {
	IDs      []filter.ChipID `json:"ids"`
	Selected bool            `json:"selected"`
}

func (h Handlers) PutSelection(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	var req SelectionRequest
	if !api.DecodeJSON(w, r, &req) {
		return
	}
	if err := b.Filters().SetSelected(filter.Key(chi.URLParam(r, "key")), req.IDs, req.Selected); err != nil {
		writeFilterError(w, err)
		return
	}
	respondView(w, b)
}

// PutRange sets a date range or a numeric range, depending on the dimension.
func (h Handlers) PutRange(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	key := filter.Key(chi.URLParam(r, "key"))
	kind, known := b.Filters().Kind(key)
	if !known {
		writeFilterError(w, filter.ErrUnknownDimension)
		return
	}
	var raw json.RawMessage
	if !api.DecodeJSON(w, r, &raw) {
		return
	}

	var err error
	switch kind {
	case filter.KindDateRange:
		var dr filter.DateRange
		if err = json.Unmarshal(raw, &dr); err == nil {
			err = b.Filters().SetDateRange(key, dr)
		}
	case filter.KindRange:
		var rg filter.Range
		if err = json.Unmarshal(raw, &rg); err == nil {
			err = b.Filters().SetRange(key, rg)
		}
	default:
		err = errors.New("dimension is not a range")
	}
	if err != nil {
		writeFilterError(w, err)
		return
	}
	respondView(w, b)
}

func (h Handlers) ResetFilters(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	b.ResetFilters()
	respondView(w, b)
}

func writePresetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, filter.ErrUnknownPreset):
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, filter.ErrInvalidLabel):
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, filter.ErrBuiltInPreset):
		api.WriteError(w, http.StatusConflict, "CONFLICT", err.Error())
	default:
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func (h Handlers) ListPresets(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": b.PresetViews()})
}

type SavePresetRequest struct {
	Label string `json:"label"`
}

func (h Handlers) SavePreset(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	var req SavePresetRequest
	if !api.DecodeJSON(w, r, &req) {
		return
	}
	p, err := b.Presets().Save(r.Context(), req.Label)
	if err != nil {
		writePresetError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, p)
}

func (h Handlers) UpdatePreset(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	p, err := b.Presets().Update(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writePresetError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, p)
}

func (h Handlers) DeletePreset(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	if err := b.Presets().Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		writePresetError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) TogglePreset(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	active, err := b.Presets().Toggle(chi.URLParam(r, "key"))
	if err != nil {
		writePresetError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"active": active, "board": b.View()})
}

func (h Handlers) GetColumns(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"available": columns.Catalogue,
		"selected":  b.Columns().Selected(),
	})
}

type ColumnsRequest struct {
	IDs []string `json:"ids"`
}

func (h Handlers) PutColumns(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	var req ColumnsRequest
	if !api.DecodeJSON(w, r, &req) {
		return
	}
	if err := b.Columns().Set(r.Context(), req.IDs); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"selected": b.Columns().Selected()})
}

func (h Handlers) ReloadCandidates(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	if err := b.ReloadCandidates(r.Context()); err != nil {
		api.WriteError(w, http.StatusBadGateway, "UPSTREAM_FAILED", "some filter options could not be loaded")
		return
	}
	respondView(w, b)
}

func (h Handlers) Notifications(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": b.Notices()})
}

func (h Handlers) OrderProgress(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid order id")
		return
	}
	p, err := h.Progress.ForOrder(r.Context(), id)
	if err != nil {
		if orderapi.IsNotFound(err) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "order not found")
			return
		}
		api.WriteError(w, http.StatusBadGateway, "UPSTREAM_FAILED", "order service unavailable")
		return
	}
	api.WriteJSON(w, http.StatusOK, p)
}
