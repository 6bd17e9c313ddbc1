package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roofleads/backend/internal/domain"
)

// AuthService signs business users in to the dashboard
type AuthService struct {
	users     domain.BusinessUserRepository
	passwords domain.PasswordHasher
	tokens    domain.TokenIssuer
	logger    *slog.Logger
}

// NewAuthService creates an auth service
func NewAuthService(
	users domain.BusinessUserRepository,
	passwords domain.PasswordHasher,
	tokens domain.TokenIssuer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger.With("component", "auth_service"),
	}
}

// Login checks credentials and returns a dashboard token.
// Unknown emails, accounts without a password and wrong passwords all yield ErrInvalidCredentials;
// accounts that are not approved yield ErrAccountPending.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResult, error) {
	if req == nil || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidRequest)
	}

	email := normalizeEmail(req.Email)
	user, err := s.users.FindBusinessUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("login rejected: unknown email", "email", email)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load business user: %w", err)
	}

	if user.PasswordHash == "" || !s.passwords.Check(user.PasswordHash, req.Password) {
		s.logger.Info("login rejected: bad password", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	if user.Status != domain.BusinessUserApproved {
		return nil, domain.ErrAccountPending
	}

	token, err := s.tokens.Issue(domain.Principal{
		UserID:      user.ID,
		Email:       user.Email,
		Slug:        user.Slug,
		CompanyName: user.CompanyName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("login succeeded", "user_id", user.ID, "tenant", user.Slug)
	return &domain.LoginResult{Token: token, User: user}, nil
}

// Authenticate verifies a dashboard token
func (s *AuthService) Authenticate(token string) (*domain.Principal, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.tokens.Verify(token)
}

// minPasswordLength is enforced when an operator provisions an account
const minPasswordLength = 8

// ProvisionUser creates or replaces an approved dashboard account for a tenant.
// An existing account with the same email keeps its id.
func (s *AuthService) ProvisionUser(ctx context.Context, req *domain.BusinessUserRequest, password string) (*domain.BusinessUser, error) {
	if req == nil || anyBlank(req.Name, req.Email, req.CompanyName, req.Slug) {
		return nil, &domain.MissingFieldsError{Required: []string{"name", "email", "companyName", "slug"}}
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidRequest, minPasswordLength)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.BusinessUser{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		CompanyName:  strings.TrimSpace(req.CompanyName),
		Slug:         strings.TrimSpace(req.Slug),
		Status:       domain.BusinessUserApproved,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.UpsertBusinessUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("business user provisioned", "user_id", user.ID, "tenant", user.Slug)
	return user, nil
}
