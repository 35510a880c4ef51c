package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/reverig/internal/domain"
	bolt "go.etcd.io/bbolt"
	bolterrors "go.etcd.io/bbolt/errors"
)

// Bucket names
var (
	bucketEntries = []byte("entries")
	bucketApps    = []byte("apps") // app:{appid}:{entryID} -> entryID
)

// HistoryStore implements domain.HistoryStore using BoltDB.
// Entry IDs are time-ordered, so key order is chronological order.
type HistoryStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In memory-only mode this holds every record; otherwise it is a
	// read cache promoted on access
	cache map[string][]byte
}

// NewHistoryStore opens the history database in dir. An empty dir keeps
// history in memory only.
func NewHistoryStore(dir string) (*HistoryStore, error) {
	if dir == "" {
		// Memory-only mode (no persistence)
		return &HistoryStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "history.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketEntries, bucketApps} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &HistoryStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *HistoryStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func cacheKey(bucket []byte, key string) string {
	return string(bucket) + ":" + key
}

// load returns the raw record for key, reading through the memory cache
func (s *HistoryStore) load(bucket []byte, key string) ([]byte, bool) {
	ck := cacheKey(bucket, key)

	s.mu.RLock()
	data, ok := s.cache[ck]
	s.mu.RUnlock()
	if ok || s.db == nil {
		return data, ok
	}

	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucket).Get([]byte(key)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if data == nil {
		return nil, false
	}

	s.mu.Lock()
	s.cache[ck] = data
	s.mu.Unlock()
	return data, true
}

// put encodes value and writes it to the cache and, when persistent, to bolt
func (s *HistoryStore) put(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[cacheKey(bucket, key)] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

// scan returns the values under prefix in key order
func (s *HistoryStore) scan(bucket []byte, prefix string) [][]byte {
	var values [][]byte
	if s.db == nil {
		full := cacheKey(bucket, prefix)

		s.mu.RLock()
		defer s.mu.RUnlock()
		keys := make([]string, 0, len(s.cache))
		for k := range s.cache {
			if strings.HasPrefix(k, full) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			values = append(values, s.cache[k])
		}
		return values
	}

	s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucket).Cursor()
		p := []byte(prefix)
		for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
			values = append(values, append([]byte(nil), v...))
		}
		return nil
	})
	return values
}

// === History ===

func appKey(id domain.AppID, entryID string) string {
	return fmt.Sprintf("app:%d:%s", id, entryID)
}

// Append stores a finished operation
func (s *HistoryStore) Append(entry domain.HistoryEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("history entry has no id")
	}
	if err := s.put(bucketEntries, entry.ID, entry); err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}
	if err := s.put(bucketApps, appKey(entry.AppID, entry.ID), entry.ID); err != nil {
		return fmt.Errorf("failed to index history entry: %w", err)
	}
	return nil
}

// List returns every entry, newest first
func (s *HistoryStore) List() ([]domain.HistoryEntry, error) {
	raw := s.scan(bucketEntries, "")
	entries := make([]domain.HistoryEntry, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var e domain.HistoryEntry
		if err := json.Unmarshal(raw[i], &e); err != nil {
			return nil, fmt.Errorf("failed to decode history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ForApp returns the entries for one identifier, newest first
func (s *HistoryStore) ForApp(id domain.AppID) ([]domain.HistoryEntry, error) {
	raw := s.scan(bucketApps, fmt.Sprintf("app:%d:", id))
	entries := make([]domain.HistoryEntry, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var entryID string
		if err := json.Unmarshal(raw[i], &entryID); err != nil {
			return nil, fmt.Errorf("failed to decode history index: %w", err)
		}
		e, err := s.Get(entryID)
		if err != nil {
			continue // Index entry without a record
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Get returns one entry by ID
func (s *HistoryStore) Get(entryID string) (domain.HistoryEntry, error) {
	data, ok := s.load(bucketEntries, entryID)
	if !ok {
		return domain.HistoryEntry{}, domain.ErrEntryNotFound
	}
	var e domain.HistoryEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("failed to decode history entry: %w", err)
	}
	return e, nil
}

// Clear deletes all history
func (s *HistoryStore) Clear() error {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	// Drop and recreate the buckets; deleting under a cursor skips keys
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketEntries, bucketApps} {
			if err := tx.DeleteBucket(bucket); err != nil && !errors.Is(err, bolterrors.ErrBucketNotFound) {
				return err
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}
