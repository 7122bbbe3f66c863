package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/zero-day-ai/metaprop"
)

// BoltOptions configures the bbolt file.
type BoltOptions struct {
	// Path of the database file. Missing parent directories are created.
	Path string

	// Bucket holding the objects. Defaults to "meta_objects".
	Bucket string

	// Timeout waiting for the file lock. Defaults to 1s.
	Timeout time.Duration
}

// DefaultBucket is the bbolt bucket used when none is configured.
const DefaultBucket = "meta_objects"

// ErrBucketNotFound is returned when the object bucket vanished from the file.
var ErrBucketNotFound = errors.New("bolt: bucket not found")

// Bolt keeps objects in a single bucket of a bbolt file.
type Bolt struct {
	db     *bolt.DB
	bucket []byte
}

var _ Backend = (*Bolt)(nil)

// NewBolt opens or creates the database file and its bucket.
func NewBolt(opts BoltOptions) (*Bolt, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("bolt path cannot be empty")
	}
	if opts.Bucket == "" {
		opts.Bucket = DefaultBucket
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second
	}
	if dir := filepath.Dir(opts.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	db, err := bolt.Open(opts.Path, 0o600, &bolt.Options{Timeout: opts.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", opts.Path, err)
	}
	b := &Bolt{db: db, bucket: []byte(opts.Bucket)}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(b.bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", opts.Bucket, err)
	}
	return b, nil
}

func (b *Bolt) Name() string { return "bolt" }

func (b *Bolt) Put(_ context.Context, key string, data []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return ErrBucketNotFound
		}
		return bucket.Put([]byte(key), data)
	})
}

func (b *Bolt) Get(_ context.Context, key string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return ErrBucketNotFound
		}
		v := bucket.Get([]byte(key))
		if v == nil {
			return fmt.Errorf("%w: %s", metaprop.ErrNotFound, key)
		}
		// v is only valid inside the transaction
		data = bytes.Clone(v)
		return nil
	})
	return data, err
}

func (b *Bolt) Delete(_ context.Context, key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return ErrBucketNotFound
		}
		if bucket.Get([]byte(key)) == nil {
			return fmt.Errorf("%w: %s", metaprop.ErrNotFound, key)
		}
		return bucket.Delete([]byte(key))
	})
}

// Keys returns the keys in bbolt byte order, which is ascending.
func (b *Bolt) Keys(_ context.Context) ([]string, error) {
	var keys []string
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return ErrBucketNotFound
		}
		return bucket.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

// Ping checks the object bucket is readable.
func (b *Bolt) Ping(_ context.Context) error {
	return b.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(b.bucket) == nil {
			return ErrBucketNotFound
		}
		return nil
	})
}
