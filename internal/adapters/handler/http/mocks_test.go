package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/ratelimit"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
	"github.com/vncsmyrnk/teknikoz-api/internal/logging"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, input ports.SignupInput) (*ports.AuthResult, error) {
	args := m.Called(ctx, input)
	result, _ := args.Get(0).(*ports.AuthResult)
	return result, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
	args := m.Called(ctx, input)
	result, _ := args.Get(0).(*ports.AuthResult)
	return result, args.Error(1)
}

func (m *MockAuthService) LoginWithGoogle(ctx context.Context, idToken string) (*ports.AuthResult, error) {
	args := m.Called(ctx, idToken)
	result, _ := args.Get(0).(*ports.AuthResult)
	return result, args.Error(1)
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	pair, _ := args.Get(0).(*domain.TokenPair)
	return pair, args.Error(1)
}

func (m *MockAuthService) RevokeToken(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *MockAuthService) RevokeAllTokens(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockAuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, accessToken string) (*domain.Principal, error) {
	args := m.Called(ctx, accessToken)
	p, _ := args.Get(0).(*domain.Principal)
	return p, args.Error(1)
}

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Create(ctx context.Context, input ports.CreateContactInput) (*domain.Contact, error) {
	args := m.Called(ctx, input)
	c, _ := args.Get(0).(*domain.Contact)
	return c, args.Error(1)
}

func (m *MockContactService) List(ctx context.Context, input ports.ListInput) ([]*domain.Contact, error) {
	args := m.Called(ctx, input)
	c, _ := args.Get(0).([]*domain.Contact)
	return c, args.Error(1)
}

func (m *MockContactService) ListByEmail(ctx context.Context, email string) ([]*domain.Contact, error) {
	args := m.Called(ctx, email)
	c, _ := args.Get(0).([]*domain.Contact)
	return c, args.Error(1)
}

func (m *MockContactService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*domain.Contact)
	return c, args.Error(1)
}

func (m *MockContactService) UpdateMessage(ctx context.Context, id uuid.UUID, message string, actor *domain.Principal) (*domain.Contact, error) {
	args := m.Called(ctx, id, message, actor)
	c, _ := args.Get(0).(*domain.Contact)
	return c, args.Error(1)
}

func (m *MockContactService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockBrochureService struct {
	mock.Mock
}

func (m *MockBrochureService) Request(ctx context.Context, input ports.BrochureRequestInput) (*domain.BrochureRequest, error) {
	args := m.Called(ctx, input)
	br, _ := args.Get(0).(*domain.BrochureRequest)
	return br, args.Error(1)
}

func (m *MockBrochureService) List(ctx context.Context, input ports.ListInput) ([]*domain.BrochureRequest, error) {
	args := m.Called(ctx, input)
	br, _ := args.Get(0).([]*domain.BrochureRequest)
	return br, args.Error(1)
}

func (m *MockBrochureService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BrochureRequest, error) {
	args := m.Called(ctx, id)
	br, _ := args.Get(0).(*domain.BrochureRequest)
	return br, args.Error(1)
}

func (m *MockBrochureService) ListByContact(ctx context.Context, contactID uuid.UUID) ([]*domain.BrochureRequest, error) {
	args := m.Called(ctx, contactID)
	br, _ := args.Get(0).([]*domain.BrochureRequest)
	return br, args.Error(1)
}

func (m *MockBrochureService) PendingDeliveries(ctx context.Context, limit int) ([]*domain.BrochureRequest, error) {
	args := m.Called(ctx, limit)
	br, _ := args.Get(0).([]*domain.BrochureRequest)
	return br, args.Error(1)
}

func (m *MockBrochureService) DeliveryStats(ctx context.Context) (*domain.EmailDeliveryStats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*domain.EmailDeliveryStats)
	return s, args.Error(1)
}

func (m *MockBrochureService) Resend(ctx context.Context, id uuid.UUID) (*domain.BrochureRequest, error) {
	args := m.Called(ctx, id)
	br, _ := args.Get(0).(*domain.BrochureRequest)
	return br, args.Error(1)
}

func (m *MockBrochureService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

const (
	adminToken = "admin-token"
	userToken  = "user-token"
)

var (
	adminPrincipal = &domain.Principal{UserID: uuid.New(), Email: "admin@teknikoz.com", Username: "admin", Roles: []string{domain.RoleAdmin}}
	userPrincipal  = &domain.Principal{UserID: uuid.New(), Email: "jane@example.com", Username: "jane", Roles: []string{domain.RoleUser}}
)

type testServer struct {
	handler   http.Handler
	auth      *MockAuthService
	contacts  *MockContactService
	brochures *MockBrochureService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithLimiter(t, ratelimit.NewMemoryLimiter())
}

func newTestServerWithLimiter(t *testing.T, limiter ratelimit.Limiter) *testServer {
	t.Helper()
	return newTestServerWith(t, limiter, logging.Discard())
}

func newTestServerWith(t *testing.T, limiter ratelimit.Limiter, logger logging.Logger) *testServer {
	t.Helper()
	ts := &testServer{
		auth:      new(MockAuthService),
		contacts:  new(MockContactService),
		brochures: new(MockBrochureService),
	}
	ts.auth.On("Authenticate", mock.Anything, adminToken).Return(adminPrincipal, nil).Maybe()
	ts.auth.On("Authenticate", mock.Anything, userToken).Return(userPrincipal, nil).Maybe()

	ts.handler = NewHandler(
		RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}, GoogleSignIn: true},
		Handlers{
			Auth:      NewAuthHandler(ts.auth, CookieConfig{}, logger),
			Contacts:  NewContactHandler(ts.contacts, logger),
			Brochures: NewBrochureHandler(ts.brochures, logger),
		},
		NewMiddleware(ts.auth, limiter, logger),
	)
	t.Cleanup(func() {
		ts.auth.AssertExpectations(t)
		ts.contacts.AssertExpectations(t)
		ts.brochures.AssertExpectations(t)
	})
	return ts
}

func (ts *testServer) do(method, path, body, token string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	return ts.serve(req)
}

func (ts *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

type testEnvelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Data       map[string]any      `json:"data"`
	Errors     []domain.FieldError `json:"errors"`
	Pagination *pagination         `json:"pagination"`
}

type testListEnvelope struct {
	Success    bool             `json:"success"`
	Data       []map[string]any `json:"data"`
	Pagination *pagination      `json:"pagination"`
}
