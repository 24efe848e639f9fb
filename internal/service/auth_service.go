package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/internal/repository"
	"github.com/noah-isme/sams-api/internal/validation"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type tokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret string
	Issuer string
	// Expiration applies to tokens issued at login and registration.
	Expiration time.Duration
	// RenewExpiration applies to tokens re-signed for every authenticated request.
	RenewExpiration time.Duration
	// AllowedRoles may self-register. Empty allows every role.
	AllowedRoles []models.UserRole
}

// AuthService registers users and issues, verifies and revokes bearer tokens.
type AuthService struct {
	repo      authUserRepository
	tokens    tokenStore
	validator *validation.Validator
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, tokens tokenStore, validate *validation.Validator, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	if config.Expiration <= 0 {
		config.Expiration = 12 * time.Hour
	}
	if config.RenewExpiration <= 0 {
		config.RenewExpiration = 12 * time.Hour
	}
	return &AuthService{repo: repo, tokens: tokens, validator: validate, logger: logger, config: config}
}

// Register creates an account for the role named in the request and signs
// a token for it.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*models.AuthResponse, error) {
	if err := s.validator.Struct(req.RegisterBase); err != nil {
		return nil, err
	}
	if req.Profile == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "role must be one of [ADMIN HOD FACULTY CLASS_COORDINATOR STUDENT]")
	}
	if err := s.validator.Struct(req.Profile); err != nil {
		return nil, err
	}

	role := models.UserRole(req.Role)
	if !s.roleAllowed(role) {
		return nil, appErrors.Clone(appErrors.ErrForbiddenRole, fmt.Sprintf("registration is not open for role %s", role))
	}

	user := &models.User{
		Name:    strings.TrimSpace(req.Name),
		Email:   normalizeEmail(req.Email),
		Phone:   req.Phone,
		Role:    role,
		Profile: req.Profile.ToProfile(),
	}
	if err := s.createAccount(ctx, user, req.Password); err != nil {
		return nil, err
	}

	token, err := s.issue(user.ID, user.Role, s.config.Expiration)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create token")
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return &models.AuthResponse{Token: token, User: user}, nil
}

// CreateAccount stores a user with a hashed password outside the
// registration allow-list. Used by operator tooling.
func (s *AuthService) CreateAccount(ctx context.Context, user *models.User, password string) error {
	if err := s.validator.Var("password", password, "required,min=6,max=72"); err != nil {
		return err
	}
	user.Email = normalizeEmail(user.Email)
	return s.createAccount(ctx, user, password)
}

func (s *AuthService) createAccount(ctx context.Context, user *models.User, password string) error {
	exists, err := s.repo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return appErrors.Internal(err, "failed to check email")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Internal(err, "failed to hash password")
	}
	user.PasswordHash = string(hash)

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		return appErrors.Internal(err, "failed to create user")
	}
	return nil
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*models.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Internal(err, "failed to fetch user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	token, err := s.issue(user.ID, user.Role, s.config.Expiration)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create token")
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

// ResetPassword replaces the password of the account owning email.
func (s *AuthService) ResetPassword(ctx context.Context, email, password string) error {
	if err := s.validator.Var("password", password, "required,min=6,max=72"); err != nil {
		return err
	}
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Internal(err, "failed to fetch user")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Internal(err, "failed to hash password")
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return appErrors.Internal(err, "failed to update password")
	}
	return nil
}

// ValidateToken verifies signature, expiry and revocation of a bearer token.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidToken.Code, appErrors.ErrInvalidToken.Status, appErrors.ErrInvalidToken.Message)
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.UserID == "" || !claims.Role.Valid() {
		return nil, appErrors.ErrInvalidToken
	}

	if s.tokens != nil {
		revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to verify token")
		}
		if revoked {
			return nil, appErrors.Clone(appErrors.ErrInvalidToken, "not authorized, token revoked")
		}
	}
	return claims, nil
}

// Renew signs a fresh token for an already authenticated identity.
func (s *AuthService) Renew(claims *models.JWTClaims) (string, error) {
	if claims == nil {
		return "", appErrors.ErrUnauthorized
	}
	return s.issue(claims.UserID, claims.Role, s.config.RenewExpiration)
}

// Logout revokes the token identified by claims until it would expire.
func (s *AuthService) Logout(ctx context.Context, claims *models.JWTClaims) error {
	if claims == nil || s.tokens == nil {
		return nil
	}
	ttl := s.config.Expiration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.tokens.Revoke(ctx, claims.ID, ttl); err != nil {
		return appErrors.Internal(err, "failed to revoke token")
	}
	return nil
}

func (s *AuthService) issue(userID string, role models.UserRole, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
}

func (s *AuthService) roleAllowed(role models.UserRole) bool {
	if len(s.config.AllowedRoles) == 0 {
		return true
	}
	for _, r := range s.config.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
