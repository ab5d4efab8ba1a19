package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindtrap/client/internal/credstore"
	"github.com/mindtrap/client/internal/gateway"
	"github.com/mindtrap/client/internal/models"
	"github.com/mindtrap/client/internal/notify"
)

// fakeBackend is a minimal auth/profile server covering the flows the
// controller exercises.
type fakeBackend struct {
	t *testing.T

	users map[string]string // email -> password
	names map[string]string // email -> full name

	logoutStatus  int
	profileByUser map[string]map[string]any
}

func newFakeBackend(t *testing.T) *fakeBackend {
	return &fakeBackend{
		t:             t,
		users:         map[string]string{},
		names:         map[string]string{},
		logoutStatus:  http.StatusOK,
		profileByUser: map[string]map[string]any{},
	}
}

func (b *fakeBackend) write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) authPayload(email string) map[string]any {
	profile := b.profileByUser[email]
	if profile == nil {
		profile = map[string]any{
			"id":                        "id-" + email,
			"email":                     email,
			"fullName":                  b.names[email],
			"initialScreeningCompleted": false,
		}
	}
	return map[string]any{
		"userId": "id-" + email,
		"tokens": map[string]string{
			"accessToken":  "access-" + email,
			"refreshToken": "refresh-" + email,
		},
		"profile": profile,
	}
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/auth/login":
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if pw, ok := b.users[req["email"]]; !ok || pw != req["password"] {
			b.write(w, http.StatusUnauthorized, map[string]string{"message": "bad credentials"})
			return
		}
		b.write(w, http.StatusOK, b.authPayload(req["email"]))
	case "/auth/register":
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if _, exists := b.users[req["email"]]; exists {
			b.write(w, http.StatusConflict, map[string]string{"message": "email already registered"})
			return
		}
		b.users[req["email"]] = req["password"]
		b.names[req["email"]] = req["fullName"]
		b.write(w, http.StatusOK, b.authPayload(req["email"]))
	case "/auth/logout":
		b.write(w, b.logoutStatus, map[string]string{})
	case "/profiles/me":
		email := "ada@example.com"
		b.write(w, http.StatusOK, b.profileByUser[email])
	case "/profiles/initial-screening":
		b.write(w, http.StatusOK, map[string]any{
			"result": map[string]any{"score": 7, "severity": "moderate", "diagnosis": "anxiety"},
			"profile": map[string]any{
				"id": "id-ada@example.com", "email": "ada@example.com",
				"fullName": "Ada", "initialScreeningCompleted": true,
			},
		})
	default:
		b.t.Errorf("unexpected path %s", r.URL.Path)
	}
}

type fixture struct {
	backend    *fakeBackend
	store      *credstore.MemoryStore
	bus        *notify.Bus
	controller *Controller
}

func setup(t *testing.T) *fixture {
	t.Helper()
	backend := newFakeBackend(t)
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	bus := notify.NewBus(nil)
	store := credstore.NewMemoryStore(bus)
	gw := gateway.New(srv.URL, store, nil)
	c := NewController(gw, store, bus, nil)
	t.Cleanup(c.Close)

	return &fixture{backend: backend, store: store, bus: bus, controller: c}
}

func TestController_ResolvedImmediatelyWithoutNetwork(t *testing.T) {
	f := setup(t)
	s := f.controller.Current()
	assert.True(t, s.Resolved, "loading state must resolve from the store read alone")
	assert.False(t, s.Authenticated())
}

func TestController_LoginPersistsSessionAndNotifies(t *testing.T) {
	f := setup(t)
	f.backend.users["ada@example.com"] = "pw"
	f.backend.names["ada@example.com"] = "Ada"

	var seen []models.Session
	unsub := f.controller.Subscribe(func(s models.Session) { seen = append(seen, s) })
	defer unsub()

	s, err := f.controller.Login(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)

	assert.True(t, s.Authenticated())
	require.NotNil(t, s.Profile)
	assert.Equal(t, "id-ada@example.com", s.Profile.ID)
	assert.Equal(t, "Ada", s.Profile.FullName)

	cred, profile := f.store.Read(context.Background())
	require.True(t, cred.Valid())
	assert.Equal(t, "access-ada@example.com", cred.AccessToken)
	require.NotNil(t, profile)

	require.NotEmpty(t, seen, "observers must hear about the login")
	assert.True(t, seen[len(seen)-1].Authenticated())
}

func TestController_LoginFailureClassifiedAndStoreStaysCleared(t *testing.T) {
	f := setup(t)
	f.backend.users["ada@example.com"] = "right"

	_, err := f.controller.Login(context.Background(), "ada@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	cred, _ := f.store.Read(context.Background())
	assert.Nil(t, cred)
	assert.False(t, f.controller.Current().Authenticated())
}

func TestController_RegisterConflictIsEmailTaken(t *testing.T) {
	f := setup(t)
	f.backend.users["ada@example.com"] = "pw"

	_, err := f.controller.Register(context.Background(), "ada@example.com", "pw", "Ada")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestController_RegisterPersistsLiveSession(t *testing.T) {
	f := setup(t)

	s, err := f.controller.Register(context.Background(), "bob@example.com", "pw", "Bob")
	require.NoError(t, err)
	assert.True(t, s.Authenticated())
	require.NotNil(t, s.Profile)
	assert.Equal(t, "Bob", s.Profile.FullName)
}

func TestController_LogoutClearsEvenWhenServerFails(t *testing.T) {
	f := setup(t)
	f.backend.users["ada@example.com"] = "pw"
	_, err := f.controller.Login(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)

	f.backend.logoutStatus = http.StatusInternalServerError
	require.NoError(t, f.controller.Logout(context.Background()))

	cred, profile := f.store.Read(context.Background())
	assert.Nil(t, cred)
	assert.Nil(t, profile)
	assert.False(t, f.controller.Current().Authenticated())
}

func TestController_LoginLogoutLogin_NoStaleProfile(t *testing.T) {
	f := setup(t)
	f.backend.users["ada@example.com"] = "pw"
	f.backend.users["bob@example.com"] = "pw"
	f.backend.profileByUser["ada@example.com"] = map[string]any{
		"id": "id-ada@example.com", "email": "ada@example.com",
		"fullName": "Ada", "homeAddress": "12 Analytical St",
		"initialScreeningCompleted": true, "memberSince": "2023",
	}
	f.backend.profileByUser["bob@example.com"] = map[string]any{
		"id": "id-bob@example.com", "email": "bob@example.com",
		"fullName": "Bob", "initialScreeningCompleted": false,
	}

	ctx := context.Background()
	_, err := f.controller.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, f.controller.Logout(ctx))
	s, err := f.controller.Login(ctx, "bob@example.com", "pw")
	require.NoError(t, err)

	require.NotNil(t, s.Profile)
	assert.Equal(t, "Bob", s.Profile.FullName)
	assert.Empty(t, s.Profile.HomeAddress, "no merge from the prior session")
	assert.False(t, s.Profile.InitialScreeningCompleted)
	assert.NotContains(t, s.Profile.Extra, "memberSince")
}

func TestController_RefreshProfileReplacesCacheKeepsCredential(t *testing.T) {
	f := setup(t)
	f.backend.users["ada@example.com"] = "pw"
	ctx := context.Background()
	_, err := f.controller.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)

	f.backend.profileByUser["ada@example.com"] = map[string]any{
		"id": "id-ada@example.com", "email": "ada@example.com",
		"fullName": "Ada", "homeAddress": "1 New Road",
		"initialScreeningCompleted": true,
	}

	profile, err := f.controller.RefreshProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1 New Road", profile.HomeAddress)

	cred, cached := f.store.Read(ctx)
	require.True(t, cred.Valid(), "credential preserved across a profile refresh")
	assert.Equal(t, "1 New Road", cached.HomeAddress)
}

func TestController_CompleteInitialScreeningFlipsFlag(t *testing.T) {
	f := setup(t)
	f.backend.users["ada@example.com"] = "pw"
	ctx := context.Background()
	_, err := f.controller.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	require.False(t, f.controller.Current().Profile.InitialScreeningCompleted)

	result, profile, err := f.controller.CompleteInitialScreening(ctx, map[int]int{1: 2, 2: 0, 3: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, result.Score)
	require.NotNil(t, profile)
	assert.True(t, profile.InitialScreeningCompleted)

	assert.True(t, f.controller.Current().Profile.InitialScreeningCompleted,
		"route gate must see the flag immediately")
}

func TestController_IndependentObserversStayInSync(t *testing.T) {
	f := setup(t)
	f.backend.users["ada@example.com"] = "pw"

	// A second controller over the same store and notifier, like a layout
	// shell and a logout control rendered separately.
	other := NewController(nil, f.store, f.bus, nil)
	defer other.Close()

	_, err := f.controller.Login(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, other.Current().Authenticated())

	require.NoError(t, f.controller.Logout(context.Background()))
	assert.False(t, other.Current().Authenticated())
}

func TestController_SessionExpiryIsObservedReactively(t *testing.T) {
	f := setup(t)
	f.backend.users["ada@example.com"] = "pw"
	ctx := context.Background()
	_, err := f.controller.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)

	// The gateway clears the store on an irrecoverable failure; the
	// controller must pick that up through the notifier alone.
	require.NoError(t, f.store.Clear(ctx))
	assert.False(t, f.controller.Current().Authenticated())
	assert.True(t, f.controller.Current().Resolved)
}
