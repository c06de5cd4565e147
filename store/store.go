package store

import (
	"database/sql"
	"sync"
)

type Store struct {
	db *sql.DB

	// UserCache maps email -> *model.User
	UserCache sync.Map

	orderingOnce sync.Once
	hasOrderIdx  bool
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) DBStats() sql.DBStats {
	return s.db.Stats()
}

func (s *Store) Ping() error {
	return s.db.Ping()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SupportsRequestOrdering reports whether the backing store carries the
// created_ts index needed for ordered request listings. Callers fall
// back to unordered reads when it is absent, they do not fail.
func (s *Store) SupportsRequestOrdering() bool {
	s.orderingOnce.Do(func() {
		row := s.db.QueryRow(
			`SELECT COUNT(1) FROM sqlite_master WHERE type = 'index' AND name = 'idx_exchange_request_created_ts'`)
		var n int
		if err := row.Scan(&n); err != nil {
			s.hasOrderIdx = false
			return
		}
		s.hasOrderIdx = n > 0
	})
	return s.hasOrderIdx
}
