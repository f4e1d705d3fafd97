package store

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	inboundBucket = []byte("inbound")
	filesBucket   = []byte("files")
)

// UploadedFile records a file registered with the platform via files.create.
type UploadedFile struct {
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Name         string    `json:"name"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

type Store interface {
	// MarkInbound records an inbound message id and reports whether it was new.
	MarkInbound(messageID string) (bool, error)
	// PruneInbound forgets inbound ids recorded before cutoff and returns how many.
	PruneInbound(cutoff time.Time) (int, error)
	SaveFile(f UploadedFile) error
	GetFile(url string) (*UploadedFile, error)
	Close() error
}

type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{inboundBucket, filesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) MarkInbound(messageID string) (bool, error) {
	if messageID == "" {
		return false, fmt.Errorf("empty message id")
	}
	fresh := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(inboundBucket)
		if b.Get([]byte(messageID)) != nil {
			return nil
		}
		fresh = true
		ts, err := time.Now().UTC().MarshalBinary()
		if err != nil {
			return err
		}
		return b.Put([]byte(messageID), ts)
	})
	return fresh, err
}

func (s *BoltStore) PruneInbound(cutoff time.Time) (int, error) {
	pruned := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(inboundBucket)
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var seen time.Time
			if err := seen.UnmarshalBinary(v); err != nil || seen.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		// Deleting inside ForEach is not allowed.
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		pruned = len(stale)
		return nil
	})
	return pruned, err
}

func (s *BoltStore) SaveFile(f UploadedFile) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(f)
		if err != nil {
			return err
		}
		return tx.Bucket(filesBucket).Put([]byte(f.URL), data)
	})
}

// GetFile returns nil, nil when url was never uploaded.
func (s *BoltStore) GetFile(url string) (*UploadedFile, error) {
	var f *UploadedFile
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(filesBucket).Get([]byte(url))
		if v == nil {
			return nil
		}
		f = &UploadedFile{}
		return json.Unmarshal(v, f)
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
