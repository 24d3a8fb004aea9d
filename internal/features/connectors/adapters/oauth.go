package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sku-tracker/internal/core/cache"
	"sku-tracker/internal/core/metrics"
	"sku-tracker/internal/features/connectors/domain"

	"go.uber.org/zap"
)

// tokenSource performs the OAuth client-credentials exchange for one carrier.
// When a cache is configured tokens are shared process-wide until shortly before
// they expire; any cache failure falls through to a fresh exchange.
type tokenSource struct {
	provider     string
	tokenURL     string
	clientID     string
	clientSecret string
	// basicAuth sends the client credentials as HTTP Basic auth in addition to the form.
	basicAuth bool
	client    *http.Client
	cache     cache.Cache
	margin    time.Duration
	logger    *zap.Logger
}

// tokenResponse is the client-credentials grant response.
type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   expiresIn `json:"expires_in"`
}

// expiresIn accepts both the numeric form (FedEx) and the quoted form (UPS).
type expiresIn int64

func (e *expiresIn) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*e = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expires_in %q: %w", s, err)
	}
	*e = expiresIn(n)
	return nil
}

func (s *tokenSource) cacheKey() string {
	return "oauth:" + strings.ToLower(s.provider) + ":" + s.clientID
}

// Token returns a bearer token, from the cache when possible.
func (s *tokenSource) Token(ctx context.Context) (string, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, s.cacheKey())
		switch {
		case err == nil && len(cached) > 0:
			metrics.TokenCache.WithLabelValues(s.provider, "hit").Inc()
			return string(cached), nil
		case err == nil || errors.Is(err, cache.ErrCacheMiss):
			metrics.TokenCache.WithLabelValues(s.provider, "miss").Inc()
		default:
			metrics.TokenCache.WithLabelValues(s.provider, "error").Inc()
			s.logger.Warn("Token cache read failed, requesting a new token", zap.Error(err))
		}
	}

	tok, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		ttl := time.Duration(tok.ExpiresIn)*time.Second - s.margin
		if ttl > 0 {
			if err := s.cache.Set(ctx, s.cacheKey(), []byte(tok.AccessToken), ttl); err != nil {
				s.logger.Warn("Token cache write failed", zap.Error(err))
			}
		}
	}

	return tok.AccessToken, nil
}

// Invalidate drops the cached token after the carrier rejected it.
func (s *tokenSource) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey()); err != nil {
		s.logger.Warn("Token cache delete failed", zap.Error(err))
	}
}

// invalidateOnUnauthorized drops the cached token when err is a 401 from the carrier API.
func (s *tokenSource) invalidateOnUnauthorized(ctx context.Context, err error) {
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) && upstream.StatusCode == http.StatusUnauthorized {
		s.Invalidate(ctx)
	}
}

// fetch exchanges the client credentials for a new token.
func (s *tokenSource) fetch(ctx context.Context) (*tokenResponse, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {s.clientID},
		"client_secret": {s.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, domain.NewTransportError(s.provider, "auth", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if s.basicAuth {
		req.SetBasicAuth(s.clientID, s.clientSecret)
	}

	body, err := execute(s.client, s.provider, "auth", req)
	if err != nil {
		return nil, err
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, domain.NewMalformedError(s.provider, "auth", body, err)
	}
	if tok.AccessToken == "" {
		return nil, domain.NewMalformedError(s.provider, "auth", body, errors.New("missing access_token"))
	}

	s.logger.Debug("OAuth token issued", zap.Int64("expires_in", int64(tok.ExpiresIn)))
	return &tok, nil
}
