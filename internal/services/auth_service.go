package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/roster-api/internal/auth"
	"github.com/yukikurage/roster-api/internal/constants"
	apierrors "github.com/yukikurage/roster-api/internal/errors"
	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/repository"
)

var (
	ErrEmailTaken         = apierrors.NewAPIError(apierrors.KindConflict, apierrors.ErrCodeAlreadyExists, "Email is already registered")
	ErrInvalidCredentials = apierrors.Unauthorized(apierrors.ErrCodeInvalidCredentials, "Invalid credentials")
	ErrPasswordTooShort   = apierrors.Validation(apierrors.FieldError{
		Field:   "password",
		Message: fmt.Sprintf("must be at least %d characters", constants.MinPasswordLength),
	})
	ErrPasswordTooLong = apierrors.Validation(apierrors.FieldError{
		Field:   "password",
		Message: fmt.Sprintf("must be at most %d bytes", constants.MaxPasswordLength),
	})
	ErrUserNotFound         = apierrors.NotFound("User not found")
	ErrInvalidToken         = apierrors.Unauthorized(apierrors.ErrCodeInvalidToken, "Not authorized to access this route")
	ErrExpiredToken         = apierrors.Unauthorized(apierrors.ErrCodeExpiredToken, "Token has expired")
	ErrTokenRevoked         = apierrors.Unauthorized(apierrors.ErrCodeInvalidToken, "Token has been revoked")
	ErrOrganizationNotFound = apierrors.NotFound("Organization not found")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo    repository.UserRepository
	orgRepo     repository.OrganizationRepository
	tokens      *auth.JWTService
	revocations auth.RevocationStore
	defaultOrg  string
	logger      *zap.Logger
}

// NewAuthService creates a new AuthService. defaultOrg names the shared
// organization self-registered users join.
func NewAuthService(
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	tokens *auth.JWTService,
	revocations auth.RevocationStore,
	defaultOrg string,
	logger *zap.Logger,
) *AuthService {
	if defaultOrg == "" {
		defaultOrg = constants.DefaultOrganizationName
	}
	return &AuthService{
		userRepo:    userRepo,
		orgRepo:     orgRepo,
		tokens:      tokens,
		revocations: revocations,
		defaultOrg:  defaultOrg,
		logger:      logger,
	}
}

// RegisterInput represents the information needed to create a user.
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	OrganizationID *uint64
	Role           models.UserRole
}

// AuthResult is a user together with a freshly issued token.
type AuthResult struct {
	User  *models.User
	Token string
}

// Register creates a user. Without an organization id the user joins the
// default organization, which is created on first use.
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	user, err := s.createUser(input)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) createUser(input RegisterInput) (*models.User, error) {
	email := normalizeEmail(input.Email)
	var fields []apierrors.FieldError
	if strings.TrimSpace(input.Name) == "" {
		fields = append(fields, apierrors.FieldError{Field: "name", Message: "is required"})
	}
	if !models.ValidateEmail(email) {
		fields = append(fields, apierrors.FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if len(fields) > 0 {
		return nil, apierrors.Validation(fields...)
	}
	if err := checkPasswordLength(input.Password); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = models.UserRoleUser
	}
	if !role.Valid() {
		return nil, apierrors.Validation(apierrors.FieldError{Field: "role", Message: "must be one of: user, admin"})
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	if input.OrganizationID != nil {
		if _, err := s.orgRepo.FindByID(*input.OrganizationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOrganizationNotFound
			}
			return nil, fmt.Errorf("failed to find organization: %w", err)
		}
		user.OrganizationID = *input.OrganizationID
		err = s.userRepo.Create(user)
	} else {
		err = s.userRepo.CreateWithDefaultOrganization(user, &models.Organization{
			Name:  s.defaultOrg,
			Email: constants.DefaultOrganizationEmail,
		})
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// VerifyCredentials returns the user whose email and password match.
func (s *AuthService) VerifyCredentials(email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apierrors.BadRequest("Please provide an email and password")
	}
	user, err := s.VerifyCredentials(email, password)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Authenticate resolves a presented token to its user. Every failure is
// an Unauthorized error.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Logout revokes token until its natural expiry. Tokens that no longer
// validate are ignored since they cannot be used anyway.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.logger.Debug("token revoked", zap.Uint64("user_id", claims.UserID))
	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ChangePassword re-hashes the caller's password after checking the
// current one.
func (s *AuthService) ChangePassword(caller Caller, current, next string) error {
	user, err := s.GetUser(caller.UserID)
	if err != nil {
		return err
	}
	if err := auth.CheckPassword(user.PasswordHash, current); err != nil {
		return ErrInvalidCredentials
	}
	return s.setPassword(user, next)
}

// ResetPassword sets a new password without checking the old one. It is
// an operator action.
func (s *AuthService) ResetPassword(email, next string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if err := s.setPassword(user, next); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates an admin account, or promotes an existing one and
// resets its password.
func (s *AuthService) EnsureAdmin(name, email, password string) (*models.User, bool, error) {
	user, err := s.userRepo.FindByEmail(normalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		created, err := s.createUser(RegisterInput{
			Name:     name,
			Email:    email,
			Password: password,
			Role:     models.UserRoleAdmin,
		})
		return created, true, err
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to find user: %w", err)
	}

	user.Role = models.UserRoleAdmin
	if err := s.setPassword(user, password); err != nil {
		return nil, false, err
	}
	return user, false, nil
}

func (s *AuthService) setPassword(user *models.User, password string) error {
	if err := checkPasswordLength(password); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func checkPasswordLength(password string) error {
	switch {
	case len(password) < constants.MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > constants.MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
