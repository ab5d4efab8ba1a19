// Package gateway is the single point through which every backend call
// flows. It attaches the current access credential, retries once after a
// token refresh on an authorization failure, and serializes concurrent
// refresh attempts so one expiring credential never triggers a stampede of
// refresh requests.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/mindtrap/client/internal/credstore"
	"github.com/mindtrap/client/internal/logging"
	"github.com/mindtrap/client/internal/models"
)

const (
	authPrefix      = "/auth/"
	refreshEndpoint = "/auth/refresh"
)

// Gateway is constructed once at process start and passed by reference.
type Gateway struct {
	baseURL string
	store   credstore.Store
	log     logging.Logger
	client  *http.Client
	now     func() time.Time

	refreshGroup singleflight.Group
}

type Option func(*Gateway)

// WithHTTPClient replaces the transport. Timeouts live on the client; the
// gateway imposes none of its own.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.client = c }
}

// WithClock replaces the time source used for the token-expiry peek.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

func New(baseURL string, store credstore.Store, log logging.Logger, opts ...Option) *Gateway {
	if log == nil {
		log = logging.NewNop()
	}
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		log:     log.With("component", "gateway"),
		client:  &http.Client{Timeout: 15 * time.Second},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Call performs an authenticated JSON request and decodes the response into
// out (which may be nil). Errors are always one of *NetworkError,
// *HTTPError, ErrSessionExpired, or a decode failure; raw transport errors
// never escape.
func (g *Gateway) Call(ctx context.Context, method, endpoint string, body, out any) error {
	// Auth endpoints are sent bare: attaching a dying token to a login or
	// refresh call only invites spurious 401 handling.
	if strings.HasPrefix(endpoint, authPrefix) {
		status, data, err := g.send(ctx, method, endpoint, body, "")
		if err != nil {
			return err
		}
		if status >= http.StatusMultipleChoices {
			return newHTTPError(status, data)
		}
		return decode(data, out)
	}

	access, refresh := g.tokens(ctx)

	// Proactive refresh: a call known to fail should not burn a round trip.
	if access == "" || g.tokenExpired(access) {
		if refresh == "" {
			return g.terminate(ctx)
		}
		if err := g.refresh(ctx); err != nil {
			return g.refreshFailure(ctx, err)
		}
		access, refresh = g.tokens(ctx)
	}

	status, data, err := g.send(ctx, method, endpoint, body, access)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		if refresh == "" {
			return g.terminate(ctx)
		}
		if err := g.refresh(ctx); err != nil {
			return g.refreshFailure(ctx, err)
		}
		access, _ = g.tokens(ctx)
		if access == "" {
			return g.terminate(ctx)
		}

		// Exactly one retry. A second authorization failure means the
		// refreshed credential is no good either.
		status, data, err = g.send(ctx, method, endpoint, body, access)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			return g.terminate(ctx)
		}
	}

	if status >= http.StatusMultipleChoices {
		return newHTTPError(status, data)
	}
	return decode(data, out)
}

// refresh coalesces concurrent refresh attempts: however many callers fail
// with an expired credential at the same time, at most one refresh request
// is in flight and all callers share its outcome. Duplicate refreshes are
// not just wasteful, they can invalidate each other's issued tokens.
func (g *Gateway) refresh(ctx context.Context) error {
	_, err, _ := g.refreshGroup.Do("refresh", func() (any, error) {
		return nil, g.doRefresh(ctx)
	})
	return err
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (g *Gateway) doRefresh(ctx context.Context) error {
	cred, profile := g.store.Read(ctx)
	if cred == nil || cred.RefreshToken == "" {
		return errNoRefreshToken
	}

	// Stamp the attempt: a logout that lands while the refresh call is in
	// flight must not be overwritten by the response.
	epoch := g.store.Epoch()

	status, data, err := g.send(ctx, http.MethodPost, refreshEndpoint,
		refreshRequest{RefreshToken: cred.RefreshToken}, "")
	if err != nil {
		return err
	}
	if status >= http.StatusMultipleChoices {
		return newHTTPError(status, data)
	}

	var resp refreshResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if resp.AccessToken == "" {
		return errors.New("refresh response missing access token")
	}

	if g.store.Epoch() != epoch {
		g.log.Info(ctx, "discarding refresh result issued before logout")
		return errRefreshSuperseded
	}

	next := models.Credential{
		AccessToken:  resp.AccessToken,
		RefreshToken: cred.RefreshToken,
		UserID:       cred.UserID,
	}
	// The server rotates refresh tokens only sometimes; keep the old one
	// when no replacement was issued.
	if resp.RefreshToken != "" {
		next.RefreshToken = resp.RefreshToken
	}

	if err := g.store.Save(ctx, next, profile); err != nil {
		return fmt.Errorf("persist refreshed credential: %w", err)
	}
	g.log.Debug(ctx, "credential refreshed")
	return nil
}

// refreshFailure maps a failed refresh onto the caller-facing taxonomy.
// Transport failures stay recoverable and never clear the session; anything
// else means the refresh token is no good and the session is over.
func (g *Gateway) refreshFailure(ctx context.Context, err error) error {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr
	}
	g.log.Info(ctx, "refresh failed, terminating session", "error", err)
	return g.terminate(ctx)
}

// terminate clears the stored credential and reports the session expired.
func (g *Gateway) terminate(ctx context.Context) error {
	if err := g.store.Clear(ctx); err != nil {
		g.log.Error(ctx, "clearing session failed", "error", err)
	}
	return ErrSessionExpired
}

func (g *Gateway) tokens(ctx context.Context) (access, refresh string) {
	cred, _ := g.store.Read(ctx)
	if cred == nil {
		return "", ""
	}
	return cred.AccessToken, cred.RefreshToken
}

// tokenExpired peeks at the access token's exp claim without verifying the
// signature (verification is the server's job). Opaque or claimless tokens
// are assumed live and left for the server to reject.
func (g *Gateway) tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.Before(g.now())
}

func (g *Gateway) send(ctx context.Context, method, endpoint string, body any, access string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &NetworkError{Err: err}
	}

	g.log.Debug(ctx, "request completed", "method", method, "endpoint", endpoint, "status", resp.StatusCode)
	return resp.StatusCode, data, nil
}

func decode(data []byte, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
