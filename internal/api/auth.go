package api

import (
	"context"

	"github.com/Son-2003/e-commerse-sub000/internal/domain"
)

type AuthClient struct {
	c *Client
}

func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

type SignInRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

type SignUpRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (a *AuthClient) SignIn(ctx context.Context, req SignInRequest) (*TokenPair, error) {
	var pair TokenPair
	if err := a.c.post(ctx, "/auth/sign-in", req, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (a *AuthClient) SignUp(ctx context.Context, req SignUpRequest) (*TokenPair, error) {
	var pair TokenPair
	if err := a.c.post(ctx, "/auth/sign-up", req, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Refresh trades a refresh token for a fresh pair. The tokens stay opaque;
// nothing here inspects them.
func (a *AuthClient) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var pair TokenPair
	if err := a.c.post(ctx, "/auth/refresh", body, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (a *AuthClient) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh_token": refreshToken}
	return a.c.post(ctx, "/auth/logout", body, nil)
}

func (a *AuthClient) Profile(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := a.c.get(ctx, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
