package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/validation"
	"github.com/vncsmyrnk/teknikoz-api/internal/logging"
)

const maxPasswordBytes = 72

type AuthConfig struct {
	// SignupRoles are the roles a caller may request at signup.
	SignupRoles    []string
	GoogleClientID string
}

type AuthService struct {
	store    ports.AuthStore
	tokens   *TokenService
	verifier ports.TokenVerifier
	cfg      AuthConfig
	logger   logging.Logger
}

func NewAuthService(store ports.AuthStore, tokens *TokenService, verifier ports.TokenVerifier, cfg AuthConfig, logger logging.Logger) *AuthService {
	if len(cfg.SignupRoles) == 0 {
		cfg.SignupRoles = []string{domain.RoleUser}
	}
	return &AuthService{
		store:    store,
		tokens:   tokens,
		verifier: verifier,
		cfg:      cfg,
		logger:   logger.With("component", "auth"),
	}
}

func (s *AuthService) Signup(ctx context.Context, input ports.SignupInput) (*ports.AuthResult, error) {
	input.Email = validation.NormalizeEmail(input.Email)
	input.Username = strings.TrimSpace(input.Username)
	if input.Role == "" {
		input.Role = domain.RoleUser
	}

	v := validation.New()
	v.Email("email", input.Email, "Invalid email format")
	v.MinLen("password", input.Password, 6, "Password must be at least 6 characters")
	v.Check(len(input.Password) <= maxPasswordBytes, "password", "Password must be at most 72 bytes")
	v.MinLen("username", input.Username, 3, "Username must be at least 3 characters")
	v.OneOf("role", input.Role, s.cfg.SignupRoles, "Role is not allowed")
	if err := v.Err(); err != nil {
		return nil, err
	}

	users := s.store.Users()
	taken, err := users.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}
	taken, err = users.UsernameExists(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	result, err := s.createAndIssue(ctx, domain.NewUser{
		Email:           input.Email,
		Username:        input.Username,
		PasswordHash:    hash,
		Role:            input.Role,
		IsActive:        true,
		IsEmailVerified: input.IsEmailVerified,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user signup successful", "user_id", result.User.ID, "username", result.User.Username)
	return result, nil
}

func (s *AuthService) createAndIssue(ctx context.Context, nu domain.NewUser) (*ports.AuthResult, error) {
	var result *ports.AuthResult
	err := s.store.WithinTx(ctx, func(ctx context.Context, store ports.AuthStore) error {
		id, err := store.Users().Create(ctx, nu)
		if err != nil {
			return err
		}

		user, err := store.Users().FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load created user: %w", err)
		}
		if user == nil {
			return fmt.Errorf("created user %s not found", id)
		}

		pair, err := s.tokens.issue(ctx, store.RefreshTokens(), user.ID, user.Email)
		if err != nil {
			return err
		}
		result = &ports.AuthResult{User: user, Tokens: pair}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
	email := validation.NormalizeEmail(input.Email)

	v := validation.New()
	v.Email("email", email, "Invalid email format")
	v.MinLen("password", input.Password, 1, "Password is required")
	if err := v.Err(); err != nil {
		return nil, err
	}

	user, err := s.store.Users().FindCredentialsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		checkPassword(string(dummyHash()), input.Password)
		return nil, domain.ErrInvalidCredentials
	}
	if !checkPassword(user.PasswordHash, input.Password) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDeactivated
	}
	user.PasswordHash = ""

	pair, err := s.tokens.IssueTokenPair(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user login successful", "user_id", user.ID)
	return &ports.AuthResult{User: user, Tokens: pair}, nil
}

// LoginWithGoogle signs in with a Google ID token, creating the account on
// first use.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*ports.AuthResult, error) {
	if s.verifier == nil || s.cfg.GoogleClientID == "" {
		return nil, fmt.Errorf("%w: google sign-in is disabled", domain.ErrInvalidCredentials)
	}

	payload, err := s.verifier.Verify(ctx, idToken, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid google token: %v", domain.ErrInvalidCredentials, err)
	}
	email := validation.NormalizeEmail(payload.Email)

	user, err := s.store.Users().FindCredentialsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		if !user.IsActive {
			return nil, domain.ErrAccountDeactivated
		}
		user.PasswordHash = ""
		pair, err := s.tokens.IssueTokenPair(ctx, user.ID, user.Email)
		if err != nil {
			return nil, err
		}
		s.logger.Info(ctx, "google login successful", "user_id", user.ID)
		return &ports.AuthResult{User: user, Tokens: pair}, nil
	}

	username, err := s.availableUsername(ctx, email)
	if err != nil {
		return nil, err
	}
	secret, err := randomSecret(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := hashPassword(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	result, err := s.createAndIssue(ctx, domain.NewUser{
		Email:           email,
		Username:        username,
		PasswordHash:    hash,
		Role:            domain.RoleUser,
		IsActive:        true,
		IsEmailVerified: true,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user created from google sign-in", "user_id", result.User.ID, "username", username)
	return result, nil
}

func (s *AuthService) availableUsername(ctx context.Context, email string) (string, error) {
	base := usernameFromEmail(email)
	candidate := base
	for range 5 {
		taken, err := s.store.Users().UsernameExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		suffix, err := randomSecret(2)
		if err != nil {
			return "", err
		}
		candidate = base + "-" + suffix
	}
	return "", domain.ErrUsernameTaken
}

func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	name := b.String()
	for len(name) < 3 {
		name += "_"
	}
	return name
}

func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	pair, user, err := s.tokens.Refresh(ctx, refreshToken)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidRefreshToken) && !errors.Is(err, domain.ErrAccountDeactivated) {
			s.logger.Error(ctx, "failed to refresh token", "error", err)
		}
		return nil, err
	}
	s.logger.Info(ctx, "token refreshed", "user_id", user.ID)
	return pair, nil
}

func (s *AuthService) RevokeToken(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

func (s *AuthService) RevokeAllTokens(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokens.RevokeAll(ctx, userID); err != nil {
		return err
	}
	s.logger.Info(ctx, "all tokens revoked", "user_id", userID)
	return nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// Authenticate turns a bearer access token into a principal. The owning user
// must still exist and be active.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.Principal, error) {
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users().FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrAccountDeactivated
	}
	return domain.NewPrincipal(user), nil
}
