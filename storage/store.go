// Package storage persists production snapshots.
package storage

import (
	"encoding/binary"
	"sort"
	"sync"

	"github.com/staxeio/staxe-go/production"
)

// Compile-time interface checks.
var (
	_ production.Store = (*BoltStore)(nil)
	_ production.Store = (*MemStore)(nil)
)

// idKey encodes a production id as an 8-byte big-endian key so bolt
// iterates records in id order.
func idKey(id uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, id)
	return k
}

// MemStore keeps encoded snapshots in memory. Records are encoded on Put so
// later mutation by the caller never leaks into the store.
type MemStore struct {
	mu      sync.RWMutex
	records map[uint64][]byte
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{records: make(map[uint64][]byte)}
}

// Put replaces the snapshot of rec's production.
func (s *MemStore) Put(rec *production.Record) error {
	data, err := encodeRecord(rec, CompressNone)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.records[rec.Production.ID] = data
	s.mu.Unlock()
	return nil
}

// Get returns the snapshot of production id.
func (s *MemStore) Get(id uint64) (*production.Record, error) {
	s.mu.RLock()
	data, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decodeRecord(data)
}

// List returns all snapshots ordered by production id.
func (s *MemStore) List() ([]*production.Record, error) {
	s.mu.RLock()
	ids := make([]uint64, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*production.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Len returns the number of stored snapshots.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
