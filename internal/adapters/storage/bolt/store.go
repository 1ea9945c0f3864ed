package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/lawlab/intake-agent/internal/domain"
)

var bucketSessions = []byte("sessions")

// Store is a durable domain.SessionStore backed by a single bbolt
// file. Records are JSON-encoded ConversationState snapshots keyed by
// session id; Put overwrites the whole record (last writer wins).
type Store struct {
	db *bolt.DB
}

// Open creates the parent directory if needed and opens the database
// file. The handle is long-lived; call Close on shutdown.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating bolt dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(bucketSessions)
		return e
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating sessions bucket: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(_ context.Context, id domain.SessionID) (*domain.ConversationState, error) {
	var state *domain.ConversationState
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSessions).Get([]byte(id))
		if v == nil {
			return domain.ErrSessionNotFound
		}
		var rec domain.ConversationState
		if e := json.Unmarshal(v, &rec); e != nil {
			// A record written by an older build is unusable;
			// treat it as absent so the session restarts fresh.
			return domain.ErrSessionNotFound
		}
		state = &rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	if state.SchemaVersion != domain.StateSchemaVersion {
		return nil, domain.ErrSessionNotFound
	}
	return state, nil
}

func (s *Store) Put(_ context.Context, id domain.SessionID, state *domain.ConversationState) error {
	enc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding session record: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Put([]byte(id), enc)
	})
}

func (s *Store) Delete(_ context.Context, id domain.SessionID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Delete([]byte(id))
	})
}

func (s *Store) DeleteExpired(_ context.Context, cutoff time.Time) (int, error) {
	n := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		c := b.Cursor()
		var stale [][]byte
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var rec domain.ConversationState
			if e := json.Unmarshal(v, &rec); e != nil {
				// Malformed entries are swept too.
				stale = append(stale, append([]byte(nil), k...))
				continue
			}
			if rec.UpdatedAt.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
		}
		for _, k := range stale {
			if e := b.Delete(k); e != nil {
				return e
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
