// Package memory provides an in-process implementation of the persistence
// ports. It backs the "memory" database driver used for local runs and tests,
// with the same locking and atomicity semantics as the SQL driver: per-user
// exclusive locks held for the life of a unit of work, and staged writes that
// become visible only on commit.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/entity"
	coreport "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
)

// balanceRow is the committed state of one account
type balanceRow struct {
	UserID           string
	AmountInCents    int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	TransactionCount uint64
}

// Store holds all committed state behind a single mutex. Row locks are
// per-user mutexes acquired by units of work before they read or stage
// anything, so the store mutex is only held for short copy operations.
type Store struct {
	mu           sync.RWMutex
	balances     map[string]*balanceRow
	transactions []entity.Transaction
	userLocks    sync.Map // userID -> *sync.Mutex
	timeProvider coreport.TimeProvider
}

// NewStore creates an empty in-memory store
func NewStore(timeProvider coreport.TimeProvider) *Store {
	return &Store{
		balances:     make(map[string]*balanceRow),
		timeProvider: timeProvider,
	}
}

// userLock returns the exclusive lock for the given user, creating it on
// first use
func (s *Store) userLock(userID string) *sync.Mutex {
	lock, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// readRow copies the committed row for the user, or returns false
func (s *Store) readRow(userID string) (balanceRow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.balances[userID]
	if !ok {
		return balanceRow{}, false
	}
	return *row, true
}

// rowToEntity rebuilds a balance entity from a committed row
func (s *Store) rowToEntity(row balanceRow) (*entity.Balance, error) {
	balance, err := entity.NewBalance(row.UserID, s.timeProvider)
	if err != nil {
		return nil, err
	}
	balance.SetAmountInCents(row.AmountInCents, s.timeProvider)
	balance.CreatedAt = row.CreatedAt
	balance.UpdatedAt = row.UpdatedAt
	balance.TransactionCount = row.TransactionCount
	return balance, nil
}

// snapshotTransactions copies the user's entries newest first
func (s *Store) snapshotTransactions(userID string) []entity.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []entity.Transaction
	for i := range s.transactions {
		if s.transactions[i].UserID == userID {
			entries = append(entries, s.transactions[i])
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}
