package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Son-2003/e-commerse-sub000/internal/api"
	"github.com/Son-2003/e-commerse-sub000/internal/checkout"
	"github.com/Son-2003/e-commerse-sub000/internal/domain"
	"github.com/Son-2003/e-commerse-sub000/internal/store"
)

type CheckoutHandler struct {
	machine *checkout.Machine
	store   *store.Store
	timeout time.Duration
}

func NewCheckoutHandler(machine *checkout.Machine, store *store.Store, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{machine: machine, store: store, timeout: timeout}
}

type CheckoutRequestDTO struct {
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	AddressMain      string `json:"address_main"`
	AddressSecondary string `json:"address_secondary"`
	PaymentMethod    string `json:"payment_method"`
}

type CheckoutResponseDTO struct {
	Status      domain.CheckoutStatus `json:"status"`
	Order       *domain.OrderResponse `json:"order,omitempty"`
	RedirectURL string                `json:"redirect_url,omitempty"`
}

// Submit runs the whole submission. A response with a redirect_url means
// the flow is suspended: the browser must leave for the external payment
// page and nothing else happens until the provider redirects back.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.machine.Submit(ctx, checkout.Form{
		FullName:         req.FullName,
		Email:            req.Email,
		Phone:            req.Phone,
		AddressMain:      req.AddressMain,
		AddressSecondary: req.AddressSecondary,
		PaymentMethod:    domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, http.StatusBadRequest, "empty_cart", "nothing to check out")
		case errors.Is(err, checkout.ErrSubmitInProgress):
			respondError(w, http.StatusConflict, "submit_in_progress", "a submission is already in progress")
		default:
			respondFailure(w, err)
		}
		return
	}

	if result.RedirectURL != "" {
		// Keep the link around so a re-render of the redirect page does
		// not mint a second one for the same order.
		h.store.PaymentLink.Fetch(ctx, result.Order.Code, func(context.Context) (*api.CheckoutLink, error) {
			return &api.CheckoutLink{CheckoutURL: result.RedirectURL}, nil
		})
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		Status:      h.machine.Status(),
		Order:       result.Order,
		RedirectURL: result.RedirectURL,
	})
}

type ReturnResponseDTO struct {
	Outcome checkout.ReturnOutcome `json:"outcome"`
	Order   *domain.OrderResponse  `json:"order,omitempty"`
}

// Return is the URL the payment provider redirects back to. The query
// parameters alone decide what happens; an unrecognized combination
// changes nothing.
func (h *CheckoutHandler) Return(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	outcome, order, err := h.machine.HandleReturn(ctx, r.URL.Query())
	if err != nil && !errors.Is(err, checkout.ErrNoPendingOrder) {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ReturnResponseDTO{Outcome: outcome, Order: order})
}

type CheckoutStatusDTO struct {
	Status    domain.CheckoutStatus `json:"status"`
	LastError string                `json:"last_error,omitempty"`
	Confirmed *domain.OrderResponse `json:"confirmed,omitempty"`
}

func (h *CheckoutHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CheckoutStatusDTO{
		Status:    h.machine.Status(),
		LastError: h.machine.LastError(),
		Confirmed: h.machine.Confirmed(),
	})
}

func (h *CheckoutHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.machine.Reset()
	respondJSON(w, http.StatusOK, CheckoutStatusDTO{Status: h.machine.Status()})
}
