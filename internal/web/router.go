package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Handlers is one session's full handler set.
type Handlers struct {
	Cart      *CartHandler
	Products  *ProductHandler
	Orders    *OrderHandler
	Checkout  *CheckoutHandler
	Address   *AddressHandler
	Auth      *AuthHandler
	AuthAdmin *AuthHandler
	Feedback  *FeedbackHandler
	Chat      *ChatHandler
	Sessions  loginChecker
}

type sessionHandler func(Handlers) http.HandlerFunc

// NewRouter mounts the storefront surface, resolving every request to its
// session's handlers. The account-scoped routes sit behind the login gate;
// cart, catalog and checkout work anonymously.
func NewRouter(reg *Registry, logger *logrus.Logger, timeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Compress(5))
	r.Use(SessionCookie)

	to := func(h sessionHandler) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			h(reg.For(r))(w, r)
		}
	}
	gate := RequireLogin(func(r *http.Request) loginChecker {
		return reg.For(r).Sessions
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// The chat stream holds its connection open past any sane request
		// timeout, so the timeout wraps everything else instead.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(timeout))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", to(func(h Handlers) http.HandlerFunc { return h.Cart.Get }))
				r.Post("/items", to(func(h Handlers) http.HandlerFunc { return h.Cart.AddItem }))
				r.Post("/items/{product_id}/decrement", to(func(h Handlers) http.HandlerFunc { return h.Cart.DecrementItem }))
				r.Delete("/items/{product_id}", to(func(h Handlers) http.HandlerFunc { return h.Cart.RemoveItem }))
				r.Delete("/", to(func(h Handlers) http.HandlerFunc { return h.Cart.Clear }))
				r.Put("/buy-now", to(func(h Handlers) http.HandlerFunc { return h.Cart.SetBuyNow }))
				r.Delete("/buy-now", to(func(h Handlers) http.HandlerFunc { return h.Cart.ClearBuyNow }))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", to(func(h Handlers) http.HandlerFunc { return h.Products.List }))
				r.Get("/{product_id}", to(func(h Handlers) http.HandlerFunc { return h.Products.Get }))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", to(func(h Handlers) http.HandlerFunc { return h.Checkout.Submit }))
				r.Get("/return", to(func(h Handlers) http.HandlerFunc { return h.Checkout.Return }))
				r.Get("/status", to(func(h Handlers) http.HandlerFunc { return h.Checkout.Status }))
				r.Post("/reset", to(func(h Handlers) http.HandlerFunc { return h.Checkout.Reset }))
			})

			r.Route("/address", func(r chi.Router) {
				r.Post("/input", to(func(h Handlers) http.HandlerFunc { return h.Address.Input }))
				r.Get("/suggestions", to(func(h Handlers) http.HandlerFunc { return h.Address.Suggestions }))
				r.Post("/select", to(func(h Handlers) http.HandlerFunc { return h.Address.Select }))
				r.Post("/typed", to(func(h Handlers) http.HandlerFunc { return h.Address.UseTyped }))
				r.Get("/", to(func(h Handlers) http.HandlerFunc { return h.Address.Resolved }))
			})

			r.Route("/auth", func(r chi.Router) {
				r.Post("/sign-in", to(func(h Handlers) http.HandlerFunc { return h.Auth.SignIn }))
				r.Post("/sign-up", to(func(h Handlers) http.HandlerFunc { return h.Auth.SignUp }))
				r.Post("/logout", to(func(h Handlers) http.HandlerFunc { return h.Auth.Logout }))
				r.Get("/me", to(func(h Handlers) http.HandlerFunc { return h.Auth.Me }))

				// The back office signs in separately; its tokens live in
				// their own slot and never mix with the shop session.
				r.Route("/admin", func(r chi.Router) {
					r.Post("/sign-in", to(func(h Handlers) http.HandlerFunc { return h.AuthAdmin.SignIn }))
					r.Post("/logout", to(func(h Handlers) http.HandlerFunc { return h.AuthAdmin.Logout }))
					r.Get("/me", to(func(h Handlers) http.HandlerFunc { return h.AuthAdmin.Me }))
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(gate)

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", to(func(h Handlers) http.HandlerFunc { return h.Orders.List }))
					r.Get("/{order_id}", to(func(h Handlers) http.HandlerFunc { return h.Orders.Get }))
					r.Post("/{order_id}/cancel", to(func(h Handlers) http.HandlerFunc { return h.Orders.Cancel }))
				})

				r.Route("/feedback", func(r chi.Router) {
					r.Get("/", to(func(h Handlers) http.HandlerFunc { return h.Feedback.ListByProduct }))
					r.Post("/", to(func(h Handlers) http.HandlerFunc { return h.Feedback.Create }))
					r.Put("/{feedback_id}", to(func(h Handlers) http.HandlerFunc { return h.Feedback.Update }))
					r.Delete("/{feedback_id}", to(func(h Handlers) http.HandlerFunc { return h.Feedback.Delete }))
				})

				r.Get("/chat/conversations", to(func(h Handlers) http.HandlerFunc { return h.Chat.Conversations }))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(gate)
			r.Get("/chat/ws", to(func(h Handlers) http.HandlerFunc { return h.Chat.Stream }))
		})
	})

	return r
}
