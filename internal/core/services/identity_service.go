package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"homyhive/internal/adapters/external/mailer"
	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/adapters/persistence/repositories"
	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/jwt"
	"homyhive/internal/pkg/logger"
	"homyhive/internal/pkg/password"
	"homyhive/internal/pkg/validator"

	"github.com/google/uuid"
)

// OTPValidity bounds how long a pending signup can be confirmed
const OTPValidity = 10 * time.Minute

// IdentityService resolves principals and handles login and signup
type IdentityService struct {
	users     repositories.UserRepository
	provider  IdentityProvider
	mail      EmailSender
	validate  *validator.Validator
	jwtSecret string
	log       logger.Logger
	now       func() time.Time
}

// NewIdentityService creates a new identity service
func NewIdentityService(
	users repositories.UserRepository,
	provider IdentityProvider,
	mail EmailSender,
	validate *validator.Validator,
	jwtSecret string,
	log logger.Logger,
) *IdentityService {
	return &IdentityService{
		users:     users,
		provider:  provider,
		mail:      mail,
		validate:  validate,
		jwtSecret: jwtSecret,
		log:       log,
		now:       time.Now,
	}
}

// SignupInput represents signup input
type SignupInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,min=10,max=15"`
	Password string `json:"password" validate:"required"`
}

// PendingSignup is kept in the session until the OTP is confirmed
type PendingSignup struct {
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"passwordHash"`
	OTP          string    `json:"otp"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// NormalizeEmail lowercases and trims an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ResolvePrincipal loads the AuthContext of a principal held in a session
func (s *IdentityService) ResolvePrincipal(ctx context.Context, principal domain.PrincipalID) (domain.AuthContext, error) {
	if principal.IsZero() {
		return domain.Anonymous, domain.ErrUnauthenticated
	}
	user, err := s.users.GetByExternalID(ctx, principal.String())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Anonymous, domain.ErrUnauthenticated
		}
		return domain.Anonymous, err
	}
	if !user.IsActive() {
		return domain.Anonymous, domain.ErrUnauthorized
	}
	return user.AuthContext(), nil
}

// ResolveBearer verifies an identity-provider access token and mirrors its
// subject. The token is checked locally first; the provider is asked only
// when local verification fails.
func (s *IdentityService) ResolveBearer(ctx context.Context, token string) (domain.AuthContext, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Anonymous, domain.ErrUnauthenticated
	}

	if s.jwtSecret != "" {
		if claims, err := jwt.ValidateAccessToken(token, s.jwtSecret); err == nil {
			user, err := s.Mirror(ctx, claims.Subject, claims.Email, claims.DisplayName(), claims.Phone)
			if err != nil {
				return domain.Anonymous, err
			}
			return s.authContextOf(user)
		} else if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Anonymous, domain.ErrUnauthenticated
		}
	}

	if s.provider == nil || !s.provider.Configured() {
		return domain.Anonymous, domain.ErrUnauthenticated
	}

	remote, err := s.provider.GetUser(ctx, token)
	if err != nil {
		return domain.Anonymous, err
	}
	user, err := s.Mirror(ctx, remote.ID, remote.Email, remote.DisplayName, remote.Phone)
	if err != nil {
		return domain.Anonymous, err
	}
	return s.authContextOf(user)
}

func (s *IdentityService) authContextOf(user *models.User) (domain.AuthContext, error) {
	if !user.IsActive() {
		return domain.Anonymous, domain.ErrUnauthorized
	}
	return user.AuthContext(), nil
}

// Mirror returns the local user for externalID, creating it on first sight
func (s *IdentityService) Mirror(ctx context.Context, externalID, email, displayName, phone string) (*models.User, error) {
	if externalID == "" {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.users.GetByExternalID(ctx, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	email = NormalizeEmail(email)
	if email == "" {
		email = externalID + "@users.homyhive.local"
	}
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}

	user = &models.User{
		ExternalID:  externalID,
		Email:       email,
		DisplayName: displayName,
		Phone:       phone,
		Status:      models.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			if existing, lookupErr := s.users.GetByExternalID(ctx, externalID); lookupErr == nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("mirror user: %w", err)
	}

	s.log.Info("identity mirrored", map[string]interface{}{"principal": externalID})
	return user, nil
}

// Login authenticates email and password. The identity provider is tried
// first and only admits mirrored admins; local accounts are checked next.
func (s *IdentityService) Login(ctx context.Context, email, pass string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || pass == "" {
		return nil, domain.NewValidationError("email and password are required", "email", "password")
	}

	if s.provider != nil && s.provider.Configured() {
		sess, err := s.provider.SignInWithPassword(ctx, email, pass)
		switch {
		case err == nil:
			user, err := s.Mirror(ctx, sess.User.ID, sess.User.Email, sess.User.DisplayName, sess.User.Phone)
			if err != nil {
				return nil, err
			}
			if user.IsAdmin {
				if !user.IsActive() {
					return nil, domain.ErrUnauthorized
				}
				return user, nil
			}
		case errors.Is(err, domain.ErrInvalidCredentials):
			// not a provider account, try local accounts
		default:
			s.log.Warn("identity provider login failed", map[string]interface{}{"error": err.Error()})
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == "" || !password.Verify(pass, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// Signup validates input, hashes the password and emails a one-time code.
// Nothing is persisted until VerifyOTP succeeds.
func (s *IdentityService) Signup(ctx context.Context, input *SignupInput) (*PendingSignup, error) {
	input.Email = NormalizeEmail(input.Email)
	input.Username = strings.TrimSpace(input.Username)

	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	if !password.ValidatePassword(input.Password) {
		return nil, domain.NewValidationError(fmt.Sprintf("password must be at least %d characters", password.MinLength), "password")
	}

	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrDuplicateEntry)
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	otp, err := password.GenerateOTP()
	if err != nil {
		return nil, err
	}

	pending := &PendingSignup{
		Username:     input.Username,
		Email:        input.Email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		OTP:          otp,
		ExpiresAt:    s.now().Add(OTPValidity),
	}

	if err := s.mail.Send(ctx, mailer.Message{
		To:      pending.Email,
		Subject: "Your HomyHive verification code",
		Text:    fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", otp, int(OTPValidity.Minutes())),
	}); err != nil {
		s.log.Warn("otp email failed", map[string]interface{}{"email": pending.Email, "error": err.Error()})
	}

	return pending, nil
}

// VerifyOTP confirms a pending signup and creates the local account
func (s *IdentityService) VerifyOTP(ctx context.Context, pending *PendingSignup, otp string) (*models.User, error) {
	if pending == nil {
		return nil, domain.NewValidationError("no signup in progress", "otp")
	}
	if s.now().After(pending.ExpiresAt) {
		return nil, domain.NewValidationError("verification code expired", "otp")
	}
	if !password.CompareOTP(pending.OTP, strings.TrimSpace(otp)) {
		return nil, domain.NewValidationError("invalid verification code", "otp")
	}

	user := &models.User{
		ExternalID:   "local-" + uuid.NewString(),
		Email:        pending.Email,
		DisplayName:  pending.Username,
		Phone:        pending.Phone,
		PasswordHash: pending.PasswordHash,
		Status:       models.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// MarkHost flags the mirrored user of principal as a host
func (s *IdentityService) MarkHost(ctx context.Context, principal domain.PrincipalID) error {
	if principal.IsZero() {
		return nil
	}
	user, err := s.users.GetByExternalID(ctx, principal.String())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if user.IsHost {
		return nil
	}
	user.IsHost = true
	return s.users.Update(ctx, user)
}
