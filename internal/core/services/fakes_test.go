package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
)

// memStore is an in-memory AuthStore. Transactions are not isolated; the
// single mutex makes every repository call atomic, which is what Consume
// needs.
type memStore struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*domain.User
	tokens map[string]*domain.RefreshToken
	roles  []string
	now    func() time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:  make(map[uuid.UUID]*domain.User),
		tokens: make(map[string]*domain.RefreshToken),
		roles:  []string{domain.RoleUser, domain.RoleAdmin},
		now:    time.Now,
	}
}

func (s *memStore) Users() ports.UserRepository {
	return memUsers{s}
}

func (s *memStore) RefreshTokens() ports.RefreshTokenRepository {
	return memTokens{s}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(context.Context, ports.AuthStore) error) error {
	return fn(ctx, s)
}

func (s *memStore) setActive(id uuid.UUID, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id].IsActive = active
}

func (s *memStore) tokensFor(userID uuid.UUID) []*domain.RefreshToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.RefreshToken
	for _, t := range s.tokens {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out
}

type memUsers struct{ s *memStore }

func (r memUsers) EmailExists(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) UsernameExists(_ context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) Create(_ context.Context, nu domain.NewUser) (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !slices.Contains(r.s.roles, nu.Role) {
		return uuid.Nil, domain.ErrRoleNotFound
	}
	for _, u := range r.s.users {
		if u.Email == nu.Email {
			return uuid.Nil, domain.ErrEmailTaken
		}
		if u.Username == nu.Username {
			return uuid.Nil, domain.ErrUsernameTaken
		}
	}
	now := r.s.now()
	u := &domain.User{
		ID:              uuid.New(),
		Email:           nu.Email,
		Username:        nu.Username,
		PasswordHash:    nu.PasswordHash,
		IsActive:        nu.IsActive,
		IsEmailVerified: nu.IsEmailVerified,
		Roles:           []string{nu.Role},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.s.users[u.ID] = u
	return u.ID, nil
}

func (r memUsers) find(match func(*domain.User) bool, activeOnly, withHash bool) *domain.User {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if !match(u) || (activeOnly && !u.IsActive) {
			continue
		}
		cp := *u
		cp.Roles = slices.Clone(u.Roles)
		if !withHash {
			cp.PasswordHash = ""
		}
		return &cp
	}
	return nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email }, true, false), nil
}

func (r memUsers) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id }, true, false), nil
}

func (r memUsers) FindCredentialsByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email }, false, true), nil
}

type memTokens struct{ s *memStore }

func (r memTokens) Store(_ context.Context, t *domain.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	t.ID = uuid.New()
	t.CreatedAt, t.UpdatedAt = now, now
	cp := *t
	r.s.tokens[t.TokenHash] = &cp
	return nil
}

func (r memTokens) FindValid(_ context.Context, hash string) (*domain.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tokens[hash]
	if !ok || !t.IsValid(r.s.now()) {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r memTokens) Consume(_ context.Context, hash string) (*domain.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tokens[hash]
	if !ok || !t.IsValid(r.s.now()) {
		return nil, nil
	}
	t.Revoked = true
	cp := *t
	return &cp, nil
}

func (r memTokens) Revoke(_ context.Context, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.tokens[hash]; ok {
		t.Revoked = true
	}
	return nil
}

func (r memTokens) RevokeAll(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, t := range r.s.tokens {
		if t.UserID == userID && !t.Revoked {
			t.Revoked = true
			n++
		}
	}
	return n, nil
}

func (r memTokens) PurgeExpired(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	now := r.s.now()
	for h, t := range r.s.tokens {
		if t.Revoked || !now.Before(t.ExpiresAt) {
			delete(r.s.tokens, h)
			n++
		}
	}
	return n, nil
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, contact *domain.Contact, kind domain.TemplateKind, brochure *domain.BrochureRequest) error {
	return m.Called(ctx, contact, kind, brochure).Error(0)
}

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *MockContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*domain.Contact)
	return c, args.Error(1)
}

func (m *MockContactRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Contact, error) {
	args := m.Called(ctx, email)
	c, _ := args.Get(0).([]*domain.Contact)
	return c, args.Error(1)
}

func (m *MockContactRepository) List(ctx context.Context, limit, offset int) ([]*domain.Contact, error) {
	args := m.Called(ctx, limit, offset)
	c, _ := args.Get(0).([]*domain.Contact)
	return c, args.Error(1)
}

func (m *MockContactRepository) ListByFormType(ctx context.Context, formType domain.FormType, limit, offset int) ([]*domain.Contact, error) {
	args := m.Called(ctx, formType, limit, offset)
	c, _ := args.Get(0).([]*domain.Contact)
	return c, args.Error(1)
}

func (m *MockContactRepository) UpdateMessage(ctx context.Context, id uuid.UUID, message string, updatedBy *uuid.UUID) (*domain.Contact, error) {
	args := m.Called(ctx, id, message, updatedBy)
	c, _ := args.Get(0).(*domain.Contact)
	return c, args.Error(1)
}

func (m *MockContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockBrochureRepository struct {
	mock.Mock
}

func (m *MockBrochureRepository) CreateWithContact(ctx context.Context, contact *domain.Contact, request *domain.BrochureRequest) error {
	return m.Called(ctx, contact, request).Error(0)
}

func (m *MockBrochureRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BrochureRequest, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*domain.BrochureRequest)
	return r, args.Error(1)
}

func (m *MockBrochureRepository) ListByContact(ctx context.Context, contactID uuid.UUID) ([]*domain.BrochureRequest, error) {
	args := m.Called(ctx, contactID)
	r, _ := args.Get(0).([]*domain.BrochureRequest)
	return r, args.Error(1)
}

func (m *MockBrochureRepository) List(ctx context.Context, limit, offset int) ([]*domain.BrochureRequest, error) {
	args := m.Called(ctx, limit, offset)
	r, _ := args.Get(0).([]*domain.BrochureRequest)
	return r, args.Error(1)
}

func (m *MockBrochureRepository) ListByCourse(ctx context.Context, course string, limit, offset int) ([]*domain.BrochureRequest, error) {
	args := m.Called(ctx, course, limit, offset)
	r, _ := args.Get(0).([]*domain.BrochureRequest)
	return r, args.Error(1)
}

func (m *MockBrochureRepository) ListPending(ctx context.Context, limit int) ([]*domain.BrochureRequest, error) {
	args := m.Called(ctx, limit)
	r, _ := args.Get(0).([]*domain.BrochureRequest)
	return r, args.Error(1)
}

func (m *MockBrochureRepository) MarkEmailSent(ctx context.Context, id uuid.UUID) (*domain.BrochureRequest, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*domain.BrochureRequest)
	return r, args.Error(1)
}

func (m *MockBrochureRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBrochureRepository) Stats(ctx context.Context) (*domain.EmailDeliveryStats, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*domain.EmailDeliveryStats)
	return r, args.Error(1)
}
