package credstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/pressly/goose/v3"

	"github.com/mindtrap/client/internal/credstore/migrations"
	"github.com/mindtrap/client/internal/dbx"
	"github.com/mindtrap/client/internal/logging"
	"github.com/mindtrap/client/internal/models"
	"github.com/mindtrap/client/internal/notify"
)

// SQLiteStore keeps auth data in a key-value metadata table inside a local
// SQLite database. The same database file can be shared by several processes;
// combined with notify.Watcher they all converge on the stored value.
type SQLiteStore struct {
	db       *sql.DB
	notifier notify.Notifier
	log      logging.Logger
	epoch    atomic.Uint64
}

func NewSQLiteStore(db *sql.DB, notifier notify.Notifier, log logging.Logger) *SQLiteStore {
	if log == nil {
		log = logging.NewNop()
	}
	return &SQLiteStore{db: db, notifier: notifier, log: log}
}

// Open opens (creating if needed) the client database at dsn and applies the
// embedded migrations. The caller owns the returned handle.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open client db: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate client db: %w", err)
	}
	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *SQLiteStore) Save(ctx context.Context, cred models.Credential, profile *models.Profile) error {
	var profileData []byte
	if profile != nil {
		data, err := json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("marshal profile: %w", err)
		}
		profileData = data
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyAccessToken, []byte(cred.AccessToken)); err != nil {
			return err
		}
		if err := set(ctx, tx, keyRefreshToken, []byte(cred.RefreshToken)); err != nil {
			return err
		}
		if err := set(ctx, tx, keyUserID, []byte(cred.UserID)); err != nil {
			return err
		}
		if profileData == nil {
			return del(ctx, tx, keyUserProfile)
		}
		return set(ctx, tx, keyUserProfile, profileData)
	})
	if err != nil {
		s.log.Error(ctx, "credstore: save failed", "error", err)
		return err
	}

	s.notifier.Emit()
	return nil
}

func (s *SQLiteStore) Read(ctx context.Context) (*models.Credential, *models.Profile) {
	cred := &models.Credential{
		AccessToken:  string(s.get(ctx, keyAccessToken)),
		RefreshToken: string(s.get(ctx, keyRefreshToken)),
		UserID:       string(s.get(ctx, keyUserID)),
	}
	if cred.AccessToken == "" && cred.RefreshToken == "" && cred.UserID == "" {
		cred = nil
	}

	var profile *models.Profile
	if data := s.get(ctx, keyUserProfile); len(data) > 0 {
		var p models.Profile
		if err := json.Unmarshal(data, &p); err != nil {
			// A half-valid cached record is worse than none.
			s.log.Warn(ctx, "credstore: dropping corrupt cached profile", "error", err)
			if derr := del(ctx, s.db, keyUserProfile); derr != nil {
				s.log.Error(ctx, "credstore: failed to delete corrupt profile", "error", derr)
			}
		} else {
			profile = &p
		}
	}

	return cred, profile
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, key := range []string{keyAccessToken, keyRefreshToken, keyUserID, keyUserProfile} {
			if err := del(ctx, tx, key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "credstore: clear failed", "error", err)
		return err
	}

	s.epoch.Add(1)
	s.notifier.Emit()
	return nil
}

func (s *SQLiteStore) Epoch() uint64 {
	return s.epoch.Load()
}

func (s *SQLiteStore) get(ctx context.Context, key string) []byte {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		s.log.Error(ctx, "credstore: read failed", "key", key, "error", err)
		return nil
	}
	return value
}

func set(ctx context.Context, tx dbx.DBTX, key string, value []byte) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set metadata[%s]: %w", key, err)
	}
	return nil
}

func del(ctx context.Context, tx dbx.DBTX, key string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete metadata[%s]: %w", key, err)
	}
	return nil
}
