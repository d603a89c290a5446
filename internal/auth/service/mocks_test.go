package service

import (
	"context"
	"errors"

	userdomain "github.com/AlibekovAA/book-review/internal/user/domain"
	userrepo "github.com/AlibekovAA/book-review/internal/user/repository"
)

type mockUserRepo struct {
	createFunc           func(ctx context.Context, user userdomain.User) error
	findByUsernameFunc   func(ctx context.Context, username string) (userdomain.User, error)
	existsByUsernameFunc func(ctx context.Context, username string) (bool, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFunc != nil {
		return m.existsByUsernameFunc(ctx, username)
	}
	return false, nil
}

// memoryUserRepo behaves like the users table, including the unique
// username constraint.
type memoryUserRepo struct {
	byName map[string]userdomain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byName: make(map[string]userdomain.User)}
}

func (m *memoryUserRepo) Create(_ context.Context, user userdomain.User) error {
	if _, ok := m.byName[user.Username]; ok {
		return userrepo.ErrUsernameAlreadyExists
	}
	m.byName[user.Username] = user
	return nil
}

func (m *memoryUserRepo) FindByUsername(_ context.Context, username string) (userdomain.User, error) {
	u, ok := m.byName[username]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	return u, nil
}

func (m *memoryUserRepo) FindByID(_ context.Context, id userdomain.ID) (userdomain.User, error) {
	for _, u := range m.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *memoryUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := m.byName[username]
	return ok, nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
	next      int
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	m.next++
	return "user-" + string(rune('0'+m.next)), nil
}
