package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/staxeio/staxe-go/production"
)

var bucketProductions = []byte("productions")

// BoltStore persists production snapshots in a bbolt database, one value per
// production keyed by id.
type BoltStore struct {
	db     *bbolt.DB
	scheme Compression
}

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string, scheme Compression) (*BoltStore, error) {
	if _, err := compress(nil, scheme); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("%w: create directory: %w", ErrIOFailure, err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: open bolt db: %w", ErrIOFailure, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketProductions); err != nil {
			return fmt.Errorf("boltstore: create bucket %q: %w", bucketProductions, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	return &BoltStore{db: db, scheme: scheme}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Put replaces the snapshot of rec's production.
func (s *BoltStore) Put(rec *production.Record) error {
	data, err := encodeRecord(rec, s.scheme)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketProductions).Put(idKey(rec.Production.ID), data); err != nil {
			return fmt.Errorf("%w: put record %d: %w", ErrIOFailure, rec.Production.ID, err)
		}
		return nil
	})
}

// Get returns the snapshot of production id.
func (s *BoltStore) Get(id uint64) (*production.Record, error) {
	var rec *production.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketProductions).Get(idKey(id))
		if data == nil {
			return ErrNotFound
		}
		var err error
		rec, err = decodeRecord(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns all snapshots ordered by production id.
func (s *BoltStore) List() ([]*production.Record, error) {
	var out []*production.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketProductions).ForEach(func(k, v []byte) error {
			rec, err := decodeRecord(v)
			if err != nil {
				return fmt.Errorf("record %x: %w", k, err)
			}
			out = append(out, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Len returns the number of stored snapshots.
func (s *BoltStore) Len() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketProductions).Stats().KeyN
		return nil
	})
	return n, err
}
