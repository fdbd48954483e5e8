package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type loginMock bool

func (m loginMock) LoggedIn() bool { return bool(m) }

func fixedLogin(state bool) func(*http.Request) loginChecker {
	return func(*http.Request) loginChecker { return loginMock(state) }
}

func TestRequireLogin_RejectsAnonymous(t *testing.T) {
	handler := RequireLogin(fixedLogin(false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireLogin_PassesSignedIn(t *testing.T) {
	handler := RequireLogin(fixedLogin(true))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/orders", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = getRequestID(r.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))
}

func TestRequestID_ClientValueKept(t *testing.T) {
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("X-Request-ID", "req-fixed")
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "req-fixed", recorder.Header().Get("X-Request-ID"))
}
