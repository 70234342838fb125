package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/shelf/internal/domain"
)

// Bucket names
var (
	bucketSession = []byte("session")
)

// Session keys. They are written and cleared as one unit.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUserID       = "user_id"
	keyName         = "name"
	keyRole         = "role"
)

var sessionKeys = []string{keyAccessToken, keyRefreshToken, keyUserID, keyName, keyRole}

// SessionStore implements domain.SessionStore using BoltDB.
type SessionStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory copy of the session bucket
	cache map[string]string
}

// NewSessionStore opens the session database for a server.
// An empty baseDir keeps the session in memory only.
func NewSessionStore(baseDir, serverURL string) (*SessionStore, error) {
	if baseDir == "" {
		return &SessionStore{cache: make(map[string]string)}, nil
	}

	dir := baseDir
	if serverURL != "" {
		dir = filepath.Join(baseDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "session.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SessionStore{db: db, cache: make(map[string]string)}
	if err := s.warm(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// warm loads the bucket into the memory cache
func (s *SessionStore) warm() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			s.cache[string(k)] = string(v)
			return nil
		})
	})
}

func (s *SessionStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadSession returns the stored session, if any
func (s *SessionStore) LoadSession() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess := domain.Session{
		AccessToken:  s.cache[keyAccessToken],
		RefreshToken: s.cache[keyRefreshToken],
		UserID:       s.cache[keyUserID],
		Name:         s.cache[keyName],
		Role:         domain.Role(s.cache[keyRole]),
	}
	return sess, sess.IsValid()
}

// SaveSession writes all session keys in one transaction
func (s *SessionStore) SaveSession(sess domain.Session) error {
	values := map[string]string{
		keyAccessToken:  sess.AccessToken,
		keyRefreshToken: sess.RefreshToken,
		keyUserID:       sess.UserID,
		keyName:         sess.Name,
		keyRole:         string(sess.Role),
	}

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucketSession)
			for k, v := range values {
				if err := b.Put([]byte(k), []byte(v)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	for k, v := range values {
		s.cache[k] = v
	}
	s.mu.Unlock()
	return nil
}

// ClearSession deletes every session key
func (s *SessionStore) ClearSession() error {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return nil
		}
		for _, k := range sessionKeys {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}
