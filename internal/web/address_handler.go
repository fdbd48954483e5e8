package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Son-2003/e-commerse-sub000/internal/api"
	"github.com/Son-2003/e-commerse-sub000/internal/geo"
)

// AddressHandler fronts the autocomplete resolver: keystrokes go in,
// debounced suggestions come back, and an explicit selection (or the
// use-what-I-typed fallback) fixes the address checkout will submit.
type AddressHandler struct {
	resolver *geo.Resolver
}

func NewAddressHandler(resolver *geo.Resolver) *AddressHandler {
	return &AddressHandler{resolver: resolver}
}

func (h *AddressHandler) Input(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// The lookup is debounced and outlives this request; suggestions
	// arrive on a later poll.
	h.resolver.Type(context.WithoutCancel(r.Context()), req.Input)
	w.WriteHeader(http.StatusAccepted)
}

func (h *AddressHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"suggestions": h.resolver.Suggestions()})
}

func (h *AddressHandler) Select(w http.ResponseWriter, r *http.Request) {
	var suggestion api.Suggestion
	if err := json.NewDecoder(r.Body).Decode(&suggestion); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if suggestion.MainText == "" {
		respondError(w, http.StatusBadRequest, "invalid_suggestion", "main_text is required")
		return
	}

	h.resolver.Select(suggestion)
	h.respondResolved(w)
}

func (h *AddressHandler) UseTyped(w http.ResponseWriter, r *http.Request) {
	h.resolver.UseTyped()
	h.respondResolved(w)
}

func (h *AddressHandler) Resolved(w http.ResponseWriter, r *http.Request) {
	h.respondResolved(w)
}

func (h *AddressHandler) respondResolved(w http.ResponseWriter) {
	main, secondary := h.resolver.Resolved()
	respondJSON(w, http.StatusOK, map[string]string{
		"main":      main,
		"secondary": secondary,
		"address":   h.resolver.Address(),
	})
}
