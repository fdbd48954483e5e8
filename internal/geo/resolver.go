package geo

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Son-2003/e-commerse-sub000/internal/api"
	"github.com/Son-2003/e-commerse-sub000/internal/format"
)

const minQueryLength = 3

// SuggestAPI is the autocomplete surface of the geolocation service.
type SuggestAPI interface {
	Suggest(ctx context.Context, query string) ([]api.Suggestion, error)
}

// Resolver turns keystrokes into an authoritative address selection.
// Lookups are debounced and only fire once the input passes the minimum
// length. An explicit selection stays authoritative while the user keeps
// typing; only re-selecting or taking the literal-text fallback replaces
// it.
type Resolver struct {
	mu          sync.Mutex
	api         SuggestAPI
	debounce    time.Duration
	timer       *time.Timer
	typed       string
	suggestions []api.Suggestion
	selected    *api.Suggestion
}

func NewResolver(suggest SuggestAPI, debounce time.Duration) *Resolver {
	return &Resolver{api: suggest, debounce: debounce}
}

// Type records the current input and schedules a suggestion lookup. Each
// keystroke resets the debounce timer; short input clears the list and
// fires nothing.
func (r *Resolver) Type(ctx context.Context, input string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.typed = input
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if len([]rune(input)) < minQueryLength {
		r.suggestions = nil
		return
	}

	r.timer = time.AfterFunc(r.debounce, func() {
		suggestions, err := r.api.Suggest(ctx, input)
		if err != nil {
			log.Printf("address autocomplete failed: %v", err)
			return
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		// A newer keystroke may have superseded this lookup.
		if r.typed != input {
			return
		}
		r.suggestions = suggestions
	})
}

// Suggestions is the current list, for rendering the dropdown.
func (r *Resolver) Suggestions() []api.Suggestion {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]api.Suggestion, len(r.suggestions))
	copy(out, r.suggestions)
	return out
}

// Select makes a suggestion the authoritative address.
func (r *Resolver) Select(s api.Suggestion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = &s
}

// UseTyped is the "use what I typed" fallback entry: the raw input becomes
// the main text with no secondary part.
func (r *Resolver) UseTyped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = &api.Suggestion{MainText: r.typed}
}

// Resolved returns the address parts a submission uses: the selection when
// one was made, otherwise the typed text as the main part.
func (r *Resolver) Resolved() (main, secondary string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.selected != nil {
		return r.selected.MainText, r.selected.SecondaryText
	}
	return r.typed, ""
}

// Address is the joined wire form.
func (r *Resolver) Address() string {
	main, secondary := r.Resolved()
	return format.JoinAddress(main, secondary)
}
