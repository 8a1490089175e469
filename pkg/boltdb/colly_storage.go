package boltdb

import (
	"fmt"
	"net/url"

	"github.com/gocolly/colly/v2/storage"
	bolt "go.etcd.io/bbolt"
)

var collyBucket = []byte("colly")

// CollyStorage persists visited request IDs and per-host cookies so consent
// and session cookies from listing sites survive restarts.
type CollyStorage struct {
	db *bolt.DB
}

func NewCollyStorage(db *bolt.DB) *CollyStorage {
	return &CollyStorage{db: db}
}

// Init implements storage.Storage interface
func (s *CollyStorage) Init() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(collyBucket)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Visited implements storage.Storage interface
func (s *CollyStorage) Visited(requestID uint64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(collyBucket).Put(visitedKey(requestID), []byte("1"))
	})
}

// IsVisited implements storage.Storage interface
func (s *CollyStorage) IsVisited(requestID uint64) (bool, error) {
	var visited bool
	err := s.db.View(func(tx *bolt.Tx) error {
		visited = tx.Bucket(collyBucket).Get(visitedKey(requestID)) != nil
		return nil
	})
	return visited, err
}

// Cookies implements storage.Storage interface
func (s *CollyStorage) Cookies(u *url.URL) string {
	var cookies string
	_ = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(collyBucket).Get(cookieKey(u)); v != nil {
			cookies = string(v)
		}
		return nil
	})
	return cookies
}

// SetCookies implements storage.Storage interface
func (s *CollyStorage) SetCookies(u *url.URL, cookies string) {
	_ = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(collyBucket).Put(cookieKey(u), []byte(cookies))
	})
}

// Clear removes all visit and cookie records.
func (s *CollyStorage) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(collyBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(collyBucket)
		return err
	})
}

func visitedKey(requestID uint64) []byte {
	return fmt.Appendf(nil, "v:%d", requestID)
}

func cookieKey(u *url.URL) []byte {
	return []byte("c:" + u.Host)
}

var _ storage.Storage = (*CollyStorage)(nil)
