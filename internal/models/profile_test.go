package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_UnmarshalKeepsUnknownKeys(t *testing.T) {
	data := []byte(`{
		"id": "u-1",
		"email": "ada@example.com",
		"fullName": "Ada Lovelace",
		"initialScreeningCompleted": true,
		"memberSince": "2024-01-15",
		"preferences": {"theme": "dark"}
	}`)

	var p Profile
	require.NoError(t, json.Unmarshal(data, &p))

	assert.Equal(t, "u-1", p.ID)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.True(t, p.InitialScreeningCompleted)
	assert.JSONEq(t, `"2024-01-15"`, string(p.Extra["memberSince"]))
	assert.JSONEq(t, `{"theme": "dark"}`, string(p.Extra["preferences"]))
	// Known fields never leak into Extra.
	assert.NotContains(t, p.Extra, "email")
}

func TestProfile_RoundTripPreservesUnknownKeys(t *testing.T) {
	original := []byte(`{
		"id": "u-1",
		"email": "ada@example.com",
		"fullName": "Ada Lovelace",
		"phone": "+1-555-0100",
		"initialScreeningCompleted": false,
		"memberSince": "2024-01-15",
		"riskTier": 3
	}`)

	var p Profile
	require.NoError(t, json.Unmarshal(original, &p))

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, string(original), string(out))
}

func TestProfile_MarshalKnownFieldWinsOnCollision(t *testing.T) {
	p := Profile{
		ID:    "u-1",
		Email: "real@example.com",
		Extra: map[string]json.RawMessage{
			"email": json.RawMessage(`"stale@example.com"`),
		},
	}

	out, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "real@example.com", decoded["email"])
}

func TestProfile_Clone(t *testing.T) {
	p := &Profile{
		ID:    "u-1",
		Email: "ada@example.com",
		Extra: map[string]json.RawMessage{
			"memberSince": json.RawMessage(`"2024-01-15"`),
		},
	}

	cp := p.Clone()
	require.NotNil(t, cp)
	assert.Equal(t, p, cp)

	cp.Extra["memberSince"] = json.RawMessage(`"1815-12-10"`)
	cp.Email = "other@example.com"

	assert.Equal(t, "ada@example.com", p.Email)
	assert.JSONEq(t, `"2024-01-15"`, string(p.Extra["memberSince"]))
}

func TestProfile_CloneNil(t *testing.T) {
	var p *Profile
	assert.Nil(t, p.Clone())
}

func TestCredential_Valid(t *testing.T) {
	tests := []struct {
		name string
		cred *Credential
		want bool
	}{
		{name: "nil", cred: nil, want: false},
		{name: "complete", cred: &Credential{AccessToken: "a", RefreshToken: "r", UserID: "u"}, want: true},
		{name: "missing access token", cred: &Credential{RefreshToken: "r", UserID: "u"}, want: false},
		{name: "missing refresh token", cred: &Credential{AccessToken: "a", UserID: "u"}, want: false},
		{name: "missing user id", cred: &Credential{AccessToken: "a", RefreshToken: "r"}, want: false},
		{name: "empty", cred: &Credential{}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cred.Valid())
		})
	}
}

func TestSession_Authenticated(t *testing.T) {
	assert.False(t, Session{}.Authenticated())
	assert.False(t, Session{Credential: &Credential{AccessToken: "a"}}.Authenticated())
	assert.True(t, Session{
		Credential: &Credential{AccessToken: "a", RefreshToken: "r", UserID: "u"},
	}.Authenticated())
}
