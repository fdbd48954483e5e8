package web

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
)

const sessionCookie = "storefront_session"

// Registry hands out one Handlers set per browser session. Each session
// gets its own store, checkout machine and auth state, all reading and
// writing KV slots namespaced by the session ID; two tabs of one browser
// share state, two browsers never do. Entries live for the process
// lifetime: there is no eviction, the durable state is in the KV.
type Registry struct {
	mu      sync.Mutex
	factory func(sessionID string) Handlers
	apps    map[string]Handlers
}

func NewRegistry(factory func(sessionID string) Handlers) *Registry {
	return &Registry{factory: factory, apps: make(map[string]Handlers)}
}

// For resolves the request's session to its Handlers, building them on
// first sight of the session ID.
func (g *Registry) For(r *http.Request) Handlers {
	id := sessionID(r)

	g.mu.Lock()
	defer g.mu.Unlock()
	app, ok := g.apps[id]
	if !ok {
		app = g.factory(id)
		g.apps[id] = app
	}
	return app
}

// SessionCookie mints the session ID on first contact and carries it on
// every response, so the whole surface below sees a stable ID.
func SessionCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(sessionCookie); err != nil {
			id := uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			r.AddCookie(&http.Cookie{Name: sessionCookie, Value: id})
		}
		next.ServeHTTP(w, r)
	})
}

func sessionID(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return "anonymous"
}
