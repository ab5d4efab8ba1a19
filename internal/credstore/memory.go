package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mindtrap/client/internal/models"
	"github.com/mindtrap/client/internal/notify"
)

// MemoryStore is an in-memory Store with the same contract as SQLiteStore.
// Intended for tests and short-lived embeds. The profile is kept serialized
// so both implementations share round-trip semantics.
type MemoryStore struct {
	notifier notify.Notifier

	mu      sync.Mutex
	values  map[string][]byte
	epochNo atomic.Uint64
}

func NewMemoryStore(notifier notify.Notifier) *MemoryStore {
	return &MemoryStore{notifier: notifier, values: make(map[string][]byte)}
}

func (s *MemoryStore) Save(ctx context.Context, cred models.Credential, profile *models.Profile) error {
	var profileData []byte
	if profile != nil {
		data, err := json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("marshal profile: %w", err)
		}
		profileData = data
	}

	s.mu.Lock()
	s.values[keyAccessToken] = []byte(cred.AccessToken)
	s.values[keyRefreshToken] = []byte(cred.RefreshToken)
	s.values[keyUserID] = []byte(cred.UserID)
	if profileData == nil {
		delete(s.values, keyUserProfile)
	} else {
		s.values[keyUserProfile] = profileData
	}
	s.mu.Unlock()

	s.notifier.Emit()
	return nil
}

func (s *MemoryStore) Read(ctx context.Context) (*models.Credential, *models.Profile) {
	s.mu.Lock()
	cred := &models.Credential{
		AccessToken:  string(s.values[keyAccessToken]),
		RefreshToken: string(s.values[keyRefreshToken]),
		UserID:       string(s.values[keyUserID]),
	}
	profileData := append([]byte(nil), s.values[keyUserProfile]...)
	s.mu.Unlock()

	if cred.AccessToken == "" && cred.RefreshToken == "" && cred.UserID == "" {
		cred = nil
	}

	var profile *models.Profile
	if len(profileData) > 0 {
		var p models.Profile
		if err := json.Unmarshal(profileData, &p); err == nil {
			profile = &p
		} else {
			s.mu.Lock()
			delete(s.values, keyUserProfile)
			s.mu.Unlock()
		}
	}

	return cred, profile
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.values = make(map[string][]byte)
	s.mu.Unlock()

	s.epochNo.Add(1)
	s.notifier.Emit()
	return nil
}

func (s *MemoryStore) Epoch() uint64 {
	return s.epochNo.Load()
}
