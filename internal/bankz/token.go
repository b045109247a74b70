package bankz

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"partner-banking/internal/errors"
)

// TokenSource caches one partner credential process-wide and refreshes it on
// expiry. The mutex is held across the refresh so concurrent callers during a
// miss wait for the single in-flight request instead of issuing their own.
type TokenSource struct {
	client       Client
	clientID     string
	clientSecret string

	mu    sync.Mutex
	token *Token

	logger *slog.Logger
	now    func() time.Time
}

func NewTokenSource(client Client, clientID, clientSecret string, logger *slog.Logger) *TokenSource {
	return &TokenSource{
		client:       client,
		clientID:     clientID,
		clientSecret: clientSecret,
		logger:       logger,
		now:          time.Now,
	}
}

// GetToken returns the cached access token while it is valid, otherwise
// requests a fresh credential from the partner. Issuance rejection or timeout
// surfaces as an auth failure; no local state has been touched at that point.
func (s *TokenSource) GetToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token.Valid(s.now()) {
		return s.token.AccessToken, nil
	}

	token, err := s.client.Authenticate(ctx, s.clientID, s.clientSecret)
	if err != nil {
		s.logger.Error("Bank Z authentication failed", "error", err)
		return "", errors.ErrAuthFailure.WithDetails(err.Error())
	}

	s.token = token
	s.logger.Info("Cached new Bank Z token", "expires_at", token.ExpiresAt)
	return token.AccessToken, nil
}
