// Package session exposes login, registration, logout, profile refresh, and
// the reactive "current session" view UI observers subscribe to. Every
// controller instance reconciles its in-memory view with the credential
// store whenever the change notifier fires, so independent observers (a
// layout shell and a logout control, or two windows sharing the storage
// file) never disagree about whether the user is signed in.
package session

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/mindtrap/client/internal/credstore"
	"github.com/mindtrap/client/internal/gateway"
	"github.com/mindtrap/client/internal/logging"
	"github.com/mindtrap/client/internal/models"
	"github.com/mindtrap/client/internal/notify"
)

// Caller is the slice of the request gateway the controller needs.
type Caller interface {
	Call(ctx context.Context, method, endpoint string, body, out any) error
}

type Controller struct {
	gw       Caller
	store    credstore.Store
	notifier notify.Notifier
	log      logging.Logger

	mu      sync.Mutex
	current models.Session
	subs    map[int]func(models.Session)
	nextID  int

	unsubscribe func()
}

// NewController synchronizes from the store immediately, so Current() is
// resolved before any network call completes, and re-synchronizes on every
// change notification.
func NewController(gw Caller, store credstore.Store, notifier notify.Notifier, log logging.Logger) *Controller {
	if log == nil {
		log = logging.NewNop()
	}
	c := &Controller{
		gw:       gw,
		store:    store,
		notifier: notifier,
		log:      log.With("component", "session"),
		subs:     make(map[int]func(models.Session)),
	}
	c.sync(context.Background())
	c.unsubscribe = notifier.Subscribe(func() {
		c.sync(context.Background())
	})
	return c
}

// Close detaches the controller from the notifier.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// Current returns the last synchronized session view.
func (c *Controller) Current() models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Subscribe registers an observer for session changes and returns an
// unsubscribe function. The observer is not called with the current value;
// read Current() on mount, the way the store itself is re-read on events.
func (c *Controller) Subscribe(fn func(models.Session)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// sync re-reads the authoritative stored value and republishes the derived
// session. The store arbitrates every conflict; in-memory state is never
// trusted across a change notification.
func (c *Controller) sync(ctx context.Context) {
	cred, profile := c.store.Read(ctx)

	next := models.Session{Resolved: true}
	if cred.Valid() {
		next.Credential = cred
		next.Profile = profile
	}

	c.mu.Lock()
	c.current = next
	fns := make([]func(models.Session), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName,omitempty"`
}

type authResponse struct {
	Tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	} `json:"tokens"`
	UserID  string          `json:"userId"`
	Profile *models.Profile `json:"profile"`
}

// Login authenticates with the backend and persists the resulting session.
// Any stale credential is cleared first; on failure the store stays cleared
// and the error is classified for display.
func (c *Controller) Login(ctx context.Context, email, password string) (models.Session, error) {
	if err := c.store.Clear(ctx); err != nil {
		return c.Current(), err
	}

	var resp authResponse
	err := c.gw.Call(ctx, http.MethodPost, "/auth/login",
		credentialsRequest{Email: email, Password: password}, &resp)
	if err != nil {
		c.log.Info(ctx, "login failed", "error", err)
		return c.Current(), classifyLoginError(err)
	}

	if err := c.persistAuth(ctx, resp, email, ""); err != nil {
		return c.Current(), err
	}
	c.log.Info(ctx, "login succeeded", "user_id", resp.UserID)
	return c.Current(), nil
}

// Register creates an account. The backend returns a live session on
// registration; it is persisted exactly as login would persist it.
func (c *Controller) Register(ctx context.Context, email, password, fullName string) (models.Session, error) {
	if err := c.store.Clear(ctx); err != nil {
		return c.Current(), err
	}

	var resp authResponse
	err := c.gw.Call(ctx, http.MethodPost, "/auth/register",
		credentialsRequest{Email: email, Password: password, FullName: fullName}, &resp)
	if err != nil {
		c.log.Info(ctx, "registration failed", "error", err)
		return c.Current(), classifyRegisterError(err)
	}

	if err := c.persistAuth(ctx, resp, email, fullName); err != nil {
		return c.Current(), err
	}
	c.log.Info(ctx, "registration succeeded", "user_id", resp.UserID)
	return c.Current(), nil
}

func (c *Controller) persistAuth(ctx context.Context, resp authResponse, email, fullName string) error {
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" ||
		resp.UserID == "" || resp.Profile == nil {
		return ErrIncompleteResponse
	}

	profile := resp.Profile.Clone()
	profile.ID = resp.UserID
	if profile.Email == "" {
		profile.Email = email
	}
	if profile.FullName == "" {
		profile.FullName = fullName
	}

	return c.store.Save(ctx, models.Credential{
		AccessToken:  resp.Tokens.AccessToken,
		RefreshToken: resp.Tokens.RefreshToken,
		UserID:       resp.UserID,
	}, profile)
}

// Logout invalidates the session server-side on a best-effort basis and then
// unconditionally clears the store. A backend or connectivity failure never
// blocks the client-side logout.
func (c *Controller) Logout(ctx context.Context) error {
	if cred, _ := c.store.Read(ctx); cred != nil && cred.AccessToken != "" {
		if err := c.gw.Call(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
			c.log.Warn(ctx, "server-side logout failed, clearing locally", "error", err)
		}
	}
	return c.store.Clear(ctx)
}

// RefreshProfile fetches the current profile and replaces the cached record
// whole, preserving the credential. Call it after any server-side profile
// mutation so locally cached onboarding flags stay consistent.
func (c *Controller) RefreshProfile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := c.gw.Call(ctx, http.MethodGet, "/profiles/me", nil, &profile); err != nil {
		return nil, err
	}
	if err := c.replaceProfile(ctx, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies a partial update server-side and caches the full
// profile the backend returns.
func (c *Controller) UpdateProfile(ctx context.Context, updates map[string]any) (*models.Profile, error) {
	var profile models.Profile
	if err := c.gw.Call(ctx, http.MethodPut, "/profiles/me", updates, &profile); err != nil {
		return nil, err
	}
	if err := c.replaceProfile(ctx, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

type screeningRequest struct {
	Responses map[int]int `json:"responses"`
}

type screeningResponse struct {
	Result  models.ScreeningResult `json:"result"`
	Profile *models.Profile        `json:"profile"`
}

// CompleteInitialScreening submits the screening answers and persists the
// updated profile, so the completed flag is immediately visible to the route
// gate and the user is not bounced back to the screening page.
func (c *Controller) CompleteInitialScreening(ctx context.Context, responses map[int]int) (*models.ScreeningResult, *models.Profile, error) {
	var resp screeningResponse
	err := c.gw.Call(ctx, http.MethodPost, "/profiles/initial-screening",
		screeningRequest{Responses: responses}, &resp)
	if err != nil {
		return nil, nil, err
	}
	if resp.Profile != nil {
		if err := c.replaceProfile(ctx, resp.Profile); err != nil {
			return nil, nil, err
		}
	}
	return &resp.Result, resp.Profile, nil
}

func (c *Controller) replaceProfile(ctx context.Context, profile *models.Profile) error {
	cred, _ := c.store.Read(ctx)
	if !cred.Valid() {
		// Session ended while the request was in flight; the store stays
		// the arbiter, nothing to cache against.
		return nil
	}
	return c.store.Save(ctx, *cred, profile)
}

func classifyLoginError(err error) error {
	var httpErr *gateway.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status == http.StatusUnauthorized {
		return ErrInvalidCredentials
	}
	return err
}

func classifyRegisterError(err error) error {
	var httpErr *gateway.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status == http.StatusConflict {
		return ErrEmailTaken
	}
	return err
}
