package store

import (
	"reflect"
	"sync"
)

// Record is one stored instance. An empty Key means the record is not
// partitioned.
type Record struct {
	Type     reflect.Type
	Instance any
	Key      string
}

// MatchFunc reports whether a stored type satisfies a request for another type.
type MatchFunc func(stored, requested reflect.Type) (bool, error)

type Store struct {
	mu      sync.RWMutex
	records []Record
	match   MatchFunc
}

func New(match MatchFunc) *Store {
	return &Store{match: match}
}

// Find returns the oldest record under key whose type matches t.
func (s *Store) Find(t reflect.Type, key string) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.find(t, key)
}

func (s *Store) find(t reflect.Type, key string) (Record, bool, error) {
	for _, rec := range s.records {
		if rec.Key != key {
			continue
		}
		ok, err := s.match(rec.Type, t)
		if err != nil {
			return Record{}, false, err
		}
		if ok {
			return rec, true, nil
		}
	}
	return Record{}, false, nil
}

// InsertIfAbsent stores rec unless a record matching rec.Type under rec.Key
// already exists. The check and the insert happen under one lock. It returns
// the record that is stored after the call and whether rec was inserted.
func (s *Store) InsertIfAbsent(rec Record) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, found, err := s.find(rec.Type, rec.Key)
	if err != nil {
		return Record{}, false, err
	}
	if found {
		return existing, false, nil
	}

	s.records = append(s.records, rec)
	return rec, true, nil
}

func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]Record, len(s.records))
	copy(records, s.records)
	return records
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}
