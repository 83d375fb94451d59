package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fkhayef/fellowship/internal/access"
	"github.com/fkhayef/fellowship/internal/auth"
	"github.com/fkhayef/fellowship/internal/database"
	"github.com/fkhayef/fellowship/internal/logging"
)

const minPasswordLength = 8

// Common errors
var (
	ErrAccountNotFound     = fmt.Errorf("account %w", access.ErrNotFound)
	ErrEmailAlreadyInUse   = errors.New("email already in use")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// Store is the persistence the service depends on
type Store interface {
	CreateWithProfile(ctx context.Context, a *Account, firstName, lastName string) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role access.Role) (*Account, error)
}

// Sessions keeps refresh tokens
type Sessions interface {
	Create(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error)
	Consume(ctx context.Context, token string) (uuid.UUID, error)
	Revoke(ctx context.Context, token string) error
}

// TokenConfig controls token signing and lifetimes
type TokenConfig struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Service handles account business logic
type Service struct {
	repo     Store
	sessions Sessions
	tokens   TokenConfig
	log      logging.Logger
	hashCost int
}

// NewService creates a new account service
func NewService(repo Store, sessions Sessions, tokens TokenConfig, log logging.Logger) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		tokens:   tokens,
		log:      log,
		hashCost: bcrypt.DefaultCost,
	}
}

// Signup creates an account with a default profile and logs it in
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("first and last name are required: %w", access.ErrInvalidValue)
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, access.ErrInvalidValue)
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	a := &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         access.RoleMember,
	}
	if err := s.repo.CreateWithProfile(ctx, a, firstName, lastName); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyInUse
		}
		return nil, err
	}

	s.log.Info(ctx, "account created", "account_id", a.ID)
	return s.issue(ctx, a)
}

// Login verifies credentials and issues a token pair
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, a)
}

// Refresh rotates a refresh token. The old token is consumed before anything
// else, so concurrent refreshes with one token yield one new session. The
// account is re-read so a changed role shows up in the new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	userID, err := s.sessions.Consume(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrInvalidRefreshToken
	}

	return s.issue(ctx, a)
}

// Logout revokes a refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.sessions.Revoke(ctx, refreshToken)
}

// GetByID retrieves an account by its ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAccountNotFound
	}
	return a, nil
}

// ChangeRole assigns a role to an account. Only admins may do it.
func (s *Service) ChangeRole(ctx context.Context, actor access.Viewer, id uuid.UUID, role string) (*Account, error) {
	if actor.Role != access.RoleAdmin {
		return nil, access.ErrUnauthorized
	}

	r, err := access.ParseRole(role)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.UpdateRole(ctx, id, r)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAccountNotFound
	}

	s.log.Info(ctx, "account role changed", "account_id", id, "role", r, "changed_by", actor.ID)
	return a, nil
}

func (s *Service) issue(ctx context.Context, a *Account) (*AuthResponse, error) {
	accessToken, err := auth.GenerateToken(a.ID, a.Role, s.tokens.Secret, s.tokens.AccessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.sessions.Create(ctx, a.ID, s.tokens.RefreshTTL)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Account:      a.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.AccessTTL.Seconds()),
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("email %q: %w", raw, access.ErrInvalidValue)
	}
	return email, nil
}
