package account

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps accounts in process memory. It backs the memory store driver and tests.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]Account
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]Account),
		now:      time.Now,
	}
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[NormalizeEmail(email)]
	if !ok {
		return Account{}, fmt.Errorf("find account: %w", ErrNotFound)
	}
	return acct, nil
}

func (s *MemoryStore) Create(_ context.Context, acct Account) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct.Email = NormalizeEmail(acct.Email)
	if _, ok := s.accounts[acct.Email]; ok {
		return Account{}, fmt.Errorf("create account: %w", ErrDuplicateKey)
	}

	now := s.now().UTC()
	acct.ID = uuid.NewString()
	acct.Version = 1
	acct.CreatedAt = now
	acct.UpdatedAt = now
	s.accounts[acct.Email] = acct

	return acct, nil
}

func (s *MemoryStore) Save(_ context.Context, acct Account) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct.Email = NormalizeEmail(acct.Email)
	stored, ok := s.accounts[acct.Email]
	if !ok {
		return Account{}, fmt.Errorf("save account: %w", ErrNotFound)
	}

	if stored.Version != acct.Version {
		return Account{}, fmt.Errorf("save account: %w", ErrConflict)
	}

	acct.Version++
	acct.UpdatedAt = s.now().UTC()
	s.accounts[acct.Email] = acct

	return acct, nil
}

func (s *MemoryStore) DeleteByEmail(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = NormalizeEmail(email)
	if _, ok := s.accounts[email]; !ok {
		return fmt.Errorf("delete account: %w", ErrNotFound)
	}
	delete(s.accounts, email)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Len returns the number of stored accounts.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}
