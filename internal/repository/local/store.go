package local

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Snapshot keys. Each key holds a whole-map JSON snapshot, not deltas.
const (
	keyAccounts       = "accounts"
	keyFamilies       = "families"
	keyChats          = "chats"
	keyCurrentUser    = "currentUser"
	keySelectedFamily = "selectedFamily"
)

type kvEntry struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value []byte `gorm:"column:value"`
}

func (kvEntry) TableName() string { return "kv_entries" }

// Store is the durable on-device key/value store backing every local cache.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the sqlite database at path. Use ":memory:" for an
// ephemeral store in tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the raw snapshot stored under key, or ErrAbsent.
func (s *Store) Get(key string) ([]byte, error) {
	var entry kvEntry
	err := s.db.First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAbsent
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return entry.Value, nil
}

// Set stores the raw snapshot under key, replacing any previous value.
func (s *Store) Set(key string, value []byte) error {
	entry := kvEntry{Key: key, Value: value}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// ErrAbsent reports that no snapshot exists under a key.
var ErrAbsent = errors.New("key absent")

// hydrate reads the snapshot under key into dest. An absent or malformed
// snapshot leaves dest untouched: a record that cannot be decoded is treated
// as missing rather than propagated.
func (s *Store) hydrate(key string, dest any) error {
	raw, err := s.Get(key)
	if errors.Is(err, ErrAbsent) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return nil
	}
	return nil
}

// flush serializes src and stores it under key.
func (s *Store) flush(key string, src any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot %q: %w", key, err)
	}
	return s.Set(key, raw)
}
