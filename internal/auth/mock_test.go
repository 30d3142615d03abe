package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/sebuszqo/ExpenseManager/internal/user"
)

// fakeCredentialStore keeps accounts in memory and stores passwords as-is.
type fakeCredentialStore struct {
	mu         sync.Mutex
	users      map[string]*user.User
	passwords  map[string]string
	violations []string
	findErr    error
	createErr  error
	creates    int
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{
		users:     make(map[string]*user.User),
		passwords: make(map[string]string),
	}
}

func (f *fakeCredentialStore) FindByEmail(_ context.Context, email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.users[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeCredentialStore) VerifyPassword(u *user.User, password string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return u != nil && f.passwords[u.ID.String()] == password
}

func (f *fakeCredentialStore) Create(_ context.Context, u *user.User, password string) (user.CreateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return user.CreateResult{}, f.createErr
	}
	if len(f.violations) > 0 {
		return user.CreateResult{Errors: f.violations}, nil
	}
	f.creates++
	stored := *u
	f.users[strings.ToLower(u.Email)] = &stored
	f.passwords[u.ID.String()] = password
	return user.CreateResult{Succeeded: true}, nil
}
