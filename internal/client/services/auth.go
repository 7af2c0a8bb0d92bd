package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/folkz/storeadmin/internal/client/models"
)

// AuthService performs the credential exchange and the who-am-I lookup.
// It satisfies session.AuthAPI.
type AuthService struct {
	api Doer
}

func NewAuthService(api Doer) *AuthService {
	return &AuthService{api: api}
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token. The endpoint expects a
// form-encoded body.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var resp loginResponse
	if err := s.api.PostForm(ctx, "/auth/login", form, &resp); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("login: empty access token in response")
	}
	return resp.AccessToken, nil
}

// Me returns the user record for the current bearer token.
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.api.Get(ctx, "/auth/me", nil, &user); err != nil {
		return nil, fmt.Errorf("fetching current user: %w", err)
	}
	return &user, nil
}
