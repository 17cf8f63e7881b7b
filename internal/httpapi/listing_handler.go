package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"potosi-be/internal/listing"
	"potosi-be/internal/logger"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type listingHandler struct {
	listings listing.Service
}

func (h *listingHandler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := listing.Filter{
		Search:   optional(q.Get("search")),
		Category: optional(q.Get("category")),
		City:     optional(q.Get("city")),
	}
	if t := q.Get("type"); t != "" {
		lt := listing.Type(t)
		f.Type = &lt
	}

	var err error
	if f.Limit, err = int32Param(q.Get("limit")); err != nil {
		writeError(w, "invalid limit", http.StatusBadRequest)
		return
	}
	if f.Page, err = int32Param(q.Get("page")); err != nil {
		writeError(w, "invalid page", http.StatusBadRequest)
		return
	}

	items, err := h.listings.Search(r.Context(), f)
	if err != nil {
		logger.FromCtx(r.Context()).Error("listing search failed", zap.Error(err))
		writeError(w, "failed to search listings", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []*listing.Listing{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *listingHandler) get(w http.ResponseWriter, r *http.Request) {
	l, err := h.listings.Get(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, listing.ErrListingNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case err != nil:
		logger.FromCtx(r.Context()).Error("listing lookup failed", zap.Error(err))
		writeError(w, "failed to load listing", http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, l)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func int32Param(s string) (int32, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n < 0 {
		return 0, errors.New("invalid integer parameter")
	}
	return int32(n), nil
}
