package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Son-2003/e-commerse-sub000/internal/api"
	"github.com/Son-2003/e-commerse-sub000/internal/domain"
	"github.com/Son-2003/e-commerse-sub000/internal/storage"
)

// AuthAPI is the slice of the remote auth surface the manager needs.
type AuthAPI interface {
	SignIn(ctx context.Context, req api.SignInRequest) (*api.TokenPair, error)
	SignUp(ctx context.Context, req api.SignUpRequest) (*api.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*api.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Profile(ctx context.Context) (*domain.User, error)
}

// Manager owns one role's session: the token pair, the cached profile and
// their persisted slots. Tokens are opaque strings; the only inspection is
// an unverified exp-claim peek to refresh before expiry. The customer
// session persists both tokens; the admin session persists only its
// refresh token and keeps the access token in memory.
type Manager struct {
	mu      sync.RWMutex
	kv      storage.KV
	auth    AuthAPI
	role    domain.Role
	session domain.AuthSession
	leeway  time.Duration

	// The refresh call goes out through the same client this manager
	// feeds tokens to; the flag keeps that call from re-entering the
	// refresh path.
	refreshing bool
}

func NewManager(kv storage.KV, auth AuthAPI, role domain.Role) *Manager {
	return &Manager{kv: kv, auth: auth, role: role, leeway: 30 * time.Second}
}

// Restore rehydrates persisted tokens at application start. Absent slots
// leave the manager logged out; read failures are logged, not fatal.
func (m *Manager) Restore(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if key := m.accessKey(); key != "" {
		if token, err := m.kv.Load(ctx, key); err == nil {
			m.session.AccessToken = string(token)
		} else if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("access token restore failed: %v", err)
		}
	}
	if token, err := m.kv.Load(ctx, m.refreshKey()); err == nil {
		m.session.RefreshToken = string(token)
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("refresh token restore failed: %v", err)
	}
}

func (m *Manager) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	pair, err := m.auth.SignIn(ctx, api.SignInRequest{Email: email, Password: password, Role: m.role})
	if err != nil {
		return nil, err
	}
	if err := m.adopt(ctx, pair); err != nil {
		return nil, err
	}
	return m.loadProfile(ctx)
}

func (m *Manager) SignUp(ctx context.Context, req api.SignUpRequest) (*domain.User, error) {
	pair, err := m.auth.SignUp(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := m.adopt(ctx, pair); err != nil {
		return nil, err
	}
	return m.loadProfile(ctx)
}

func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	refresh := m.session.RefreshToken
	m.session = domain.AuthSession{}
	m.mu.Unlock()

	if key := m.accessKey(); key != "" {
		if err := m.kv.Delete(ctx, key); err != nil {
			log.Printf("access token delete failed: %v", err)
		}
	}
	if err := m.kv.Delete(ctx, m.refreshKey()); err != nil {
		log.Printf("refresh token delete failed: %v", err)
	}

	if refresh == "" {
		return nil
	}
	return m.auth.Logout(ctx, refresh)
}

// LoggedIn is the UI's sole signal: a non-empty access token.
func (m *Manager) LoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.LoggedIn()
}

func (m *Manager) User() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.User
}

// AccessToken implements api.TokenSource. When the current token is a JWT
// whose exp is inside the leeway window, it is refreshed first; opaque
// tokens are handed out as-is and refreshed only after the server rejects
// them.
func (m *Manager) AccessToken(ctx context.Context) string {
	m.mu.Lock()
	token := m.session.AccessToken
	refresh := m.session.RefreshToken
	if m.refreshing || token == "" || refresh == "" || !nearExpiry(token, m.leeway) {
		m.mu.Unlock()
		return token
	}
	m.refreshing = true
	m.mu.Unlock()

	pair, err := m.auth.Refresh(ctx, refresh)
	m.mu.Lock()
	m.refreshing = false
	m.mu.Unlock()
	if err != nil {
		log.Printf("token refresh failed: %v", err)
		return token
	}
	if err := m.adopt(ctx, pair); err != nil {
		log.Printf("refreshed token persist failed: %v", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.AccessToken
}

func (m *Manager) adopt(ctx context.Context, pair *api.TokenPair) error {
	m.mu.Lock()
	m.session.AccessToken = pair.AccessToken
	m.session.RefreshToken = pair.RefreshToken
	m.mu.Unlock()

	if key := m.accessKey(); key != "" {
		if err := m.kv.Save(ctx, key, []byte(pair.AccessToken)); err != nil {
			return fmt.Errorf("persist access token: %w", err)
		}
	}
	if err := m.kv.Save(ctx, m.refreshKey(), []byte(pair.RefreshToken)); err != nil {
		return fmt.Errorf("persist refresh token: %w", err)
	}
	return nil
}

func (m *Manager) loadProfile(ctx context.Context) (*domain.User, error) {
	user, err := m.auth.Profile(ctx)
	if err != nil {
		// Signed in but no profile yet; the session stands.
		log.Printf("profile fetch failed: %v", err)
		return nil, nil
	}
	m.mu.Lock()
	m.session.User = user
	m.mu.Unlock()
	return user, nil
}

func (m *Manager) accessKey() string {
	if m.role == domain.RoleAdmin {
		return ""
	}
	return storage.KeyAccessToken
}

func (m *Manager) refreshKey() string {
	if m.role == domain.RoleAdmin {
		return storage.KeyRefreshTokenAdmin
	}
	return storage.KeyRefreshToken
}

// nearExpiry peeks at the exp claim without verifying the signature.
// Tokens that do not parse as JWTs never report near expiry.
func nearExpiry(token string, leeway time.Duration) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) < leeway
}
