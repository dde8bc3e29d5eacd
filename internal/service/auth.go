package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/msomdec/todo-api/internal/auth"
	"github.com/msomdec/todo-api/internal/domain"
)

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService handles registration, login, token refresh and request
// authentication. It keeps no session state: a token is valid purely by
// signature, expiry and type.
type AuthService struct {
	users   domain.UserRepository
	hasher  *auth.Hasher
	tokens  *auth.TokenCodec
	cookies CookiePolicy
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, hasher *auth.Hasher, tokens *auth.TokenCodec, cookies CookiePolicy) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		cookies: cookies,
	}
}

// Cookies returns the policy for carrying tokens as cookies.
func (s *AuthService) Cookies() CookiePolicy {
	return s.cookies
}

// Register creates a new user account after validating inputs.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	if password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, auth.MaxPasswordBytes)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and mints an access and a refresh token.
// An unknown email and a wrong password fail with the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(user.ID, auth.TokenAccess, s.cookies.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.Issue(user.ID, auth.TokenRefresh, s.cookies.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.Verify(refreshToken, auth.TokenRefresh)
	if err != nil {
		return "", domain.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	access, err := s.tokens.Issue(user.ID, auth.TokenAccess, s.cookies.AccessTTL)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return access, nil
}

// Logout returns the cookie directives that end a browser session.
// Issued tokens stay valid until they expire.
func (s *AuthService) Logout() []*http.Cookie {
	return s.cookies.ClearCookies()
}

// Authenticate resolves an access token to the id of a user that still
// exists. Every failure is reported as domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (string, error) {
	userID, err := s.tokens.Verify(accessToken, auth.TokenAccess)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	return userID, nil
}

// GetUserByID retrieves a user by their ID.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// normalizeEmail trims and lower-cases an address and rejects anything
// that is not a bare addr-spec.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", fmt.Errorf("%w: email is not a valid address", domain.ErrValidation)
	}
	return email, nil
}
