package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Son-2003/e-commerse-sub000/internal/api"
	"github.com/Son-2003/e-commerse-sub000/internal/domain"
	"github.com/Son-2003/e-commerse-sub000/internal/storage"
)

type mockAuth struct {
	m           sync.Mutex
	pair        *api.TokenPair
	user        *domain.User
	err         error
	refreshed   int
	loggedOut   string
	refreshPair *api.TokenPair
}

func (a *mockAuth) SignIn(context.Context, api.SignInRequest) (*api.TokenPair, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.pair, nil
}

func (a *mockAuth) SignUp(context.Context, api.SignUpRequest) (*api.TokenPair, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.pair, nil
}

func (a *mockAuth) Refresh(context.Context, string) (*api.TokenPair, error) {
	a.m.Lock()
	defer a.m.Unlock()
	if a.err != nil {
		return nil, a.err
	}
	a.refreshed++
	return a.refreshPair, nil
}

func (a *mockAuth) Logout(_ context.Context, refreshToken string) error {
	a.m.Lock()
	defer a.m.Unlock()
	a.loggedOut = refreshToken
	return nil
}

func (a *mockAuth) Profile(context.Context) (*domain.User, error) {
	if a.user == nil {
		return nil, fmt.Errorf("no profile")
	}
	return a.user, nil
}

func TestSignIn_PersistsTokensAndProfile(t *testing.T) {
	kv := storage.NewMemoryKV()
	auth := &mockAuth{
		pair: &api.TokenPair{AccessToken: "acc-1", RefreshToken: "ref-1"},
		user: &domain.User{ID: 7, FullName: "An Tran", Email: "an@example.com"},
	}
	sut := NewManager(kv, auth, domain.RoleCustomer)

	user, err := sut.SignIn(context.Background(), "an@example.com", "secret")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(7), user.ID)
	assert.True(t, sut.LoggedIn())

	access, err := kv.Load(context.Background(), storage.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", string(access))
	refresh, err := kv.Load(context.Background(), storage.KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "ref-1", string(refresh))
}

func TestAdminSession_PersistsOnlyRefreshToken(t *testing.T) {
	kv := storage.NewMemoryKV()
	auth := &mockAuth{pair: &api.TokenPair{AccessToken: "adm-acc", RefreshToken: "adm-ref"}}
	sut := NewManager(kv, auth, domain.RoleAdmin)

	_, err := sut.SignIn(context.Background(), "admin@example.com", "secret")
	require.NoError(t, err)
	assert.True(t, sut.LoggedIn())

	assert.False(t, kv.Has(storage.KeyAccessToken))
	refresh, err := kv.Load(context.Background(), storage.KeyRefreshTokenAdmin)
	require.NoError(t, err)
	assert.Equal(t, "adm-ref", string(refresh))
}

func TestRestore_RehydratesFromStorage(t *testing.T) {
	kv := storage.NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Save(ctx, storage.KeyAccessToken, []byte("acc-x")))
	require.NoError(t, kv.Save(ctx, storage.KeyRefreshToken, []byte("ref-x")))

	sut := NewManager(kv, &mockAuth{}, domain.RoleCustomer)
	assert.False(t, sut.LoggedIn())
	sut.Restore(ctx)
	assert.True(t, sut.LoggedIn())
	assert.Equal(t, "acc-x", sut.AccessToken(ctx))
}

func TestLogout_ClearsTokensAndNotifiesServer(t *testing.T) {
	kv := storage.NewMemoryKV()
	auth := &mockAuth{pair: &api.TokenPair{AccessToken: "a", RefreshToken: "r"}}
	sut := NewManager(kv, auth, domain.RoleCustomer)
	_, err := sut.SignIn(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	require.NoError(t, sut.Logout(context.Background()))
	assert.False(t, sut.LoggedIn())
	assert.False(t, kv.Has(storage.KeyAccessToken))
	assert.False(t, kv.Has(storage.KeyRefreshToken))
	assert.Equal(t, "r", auth.loggedOut)
}

func TestAccessToken_OpaqueTokenNeverProactivelyRefreshed(t *testing.T) {
	kv := storage.NewMemoryKV()
	auth := &mockAuth{pair: &api.TokenPair{AccessToken: "opaque-token", RefreshToken: "r"}}
	sut := NewManager(kv, auth, domain.RoleCustomer)
	_, err := sut.SignIn(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	assert.Equal(t, "opaque-token", sut.AccessToken(context.Background()))
	assert.Equal(t, 0, auth.refreshed)
}

func TestAccessToken_ExpiringJWTIsRefreshed(t *testing.T) {
	expiring := signedToken(t, time.Now().Add(5*time.Second))
	fresh := signedToken(t, time.Now().Add(time.Hour))

	kv := storage.NewMemoryKV()
	auth := &mockAuth{
		pair:        &api.TokenPair{AccessToken: expiring, RefreshToken: "r1"},
		refreshPair: &api.TokenPair{AccessToken: fresh, RefreshToken: "r2"},
	}
	sut := NewManager(kv, auth, domain.RoleCustomer)
	_, err := sut.SignIn(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	got := sut.AccessToken(context.Background())
	assert.Equal(t, fresh, got)
	assert.Equal(t, 1, auth.refreshed)

	// Persisted slots follow the refreshed pair.
	access, err := kv.Load(context.Background(), storage.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, fresh, string(access))
}

func TestAccessToken_FreshJWTNotRefreshed(t *testing.T) {
	fresh := signedToken(t, time.Now().Add(time.Hour))
	kv := storage.NewMemoryKV()
	auth := &mockAuth{pair: &api.TokenPair{AccessToken: fresh, RefreshToken: "r"}}
	sut := NewManager(kv, auth, domain.RoleCustomer)
	_, err := sut.SignIn(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	assert.Equal(t, fresh, sut.AccessToken(context.Background()))
	assert.Equal(t, 0, auth.refreshed)
}

func signedToken(t *testing.T, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}
