package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/feral-file/ff-wallet-assets/internal/adapter"
	"github.com/feral-file/ff-wallet-assets/internal/domain"
)

// tokenResponse is the body returned by the token endpoint
type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// TokenSource hands out short-lived bearer tokens for the asset graph.
// Tokens are not cached: every call hits the token endpoint.
//
//go:generate mockgen -source=token_source.go -destination=../../mocks/token_source.go -package=mocks -mock_names=TokenSource=MockTokenSource
type TokenSource interface {
	// Token fetches a fresh access token
	Token(ctx context.Context) (string, error)
}

type tokenSource struct {
	httpClient adapter.HTTPClient
	tokenURL   string
	json       adapter.JSON
	clock      adapter.Clock
}

// NewTokenSource creates a token source backed by the same-origin token endpoint
func NewTokenSource(httpClient adapter.HTTPClient, tokenURL string, json adapter.JSON, clock adapter.Clock) TokenSource {
	return &tokenSource{
		httpClient: httpClient,
		tokenURL:   tokenURL,
		json:       json,
		clock:      clock,
	}
}

// Token fetches a fresh access token
func (s *tokenSource) Token(ctx context.Context) (string, error) {
	body, err := s.httpClient.GetBytes(ctx, s.tokenURL, map[string]string{"Accept": "application/json"})
	if err != nil {
		return "", fmt.Errorf("failed to call token endpoint: %w", err)
	}

	var resp tokenResponse
	if err := s.json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal token response: %w", err)
	}

	if resp.AccessToken == "" {
		return "", domain.ErrTokenUnavailable
	}

	if err := s.checkExpiry(resp.AccessToken); err != nil {
		return "", err
	}

	return resp.AccessToken, nil
}

// checkExpiry rejects JWTs whose exp claim is already past.
// The signature is not verified here, the asset graph does that; opaque tokens pass through.
func (s *tokenSource) checkExpiry(token string) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}

	if !exp.After(s.clock.Now()) {
		return fmt.Errorf("%w: expired at %s", domain.ErrTokenExpired, exp.Time)
	}

	return nil
}
