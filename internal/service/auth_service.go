package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/classtrack/attendance-admin-api/internal/models"
	"github.com/classtrack/attendance-admin-api/internal/repository"
	appErrors "github.com/classtrack/attendance-admin-api/pkg/errors"
)

type authAccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	TouchLastLogin(ctx context.Context, email string, at time.Time) error
}

type userResolver interface {
	Resolve(ctx context.Context, email string) (*models.DirectoryUser, error)
}

// AuthConfig defines configuration for the sign-in flow.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// Claims is the JWT payload issued on sign-in.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService authenticates accounts and issues access tokens.
type AuthService struct {
	accounts  authAccountRepository
	resolver  userResolver
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService.
func NewAuthService(accounts authAccountRepository, resolver userResolver, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Expiration <= 0 {
		config.Expiration = 24 * time.Hour
	}
	return &AuthService{accounts: accounts, resolver: resolver, validator: validate, logger: logger, config: config}
}

// Login verifies credentials, resolves the profile behind the account and
// returns an access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	account, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	user, err := s.resolver.Resolve(ctx, account.Email)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "no profile found for this account")
	}
	if !s.profileActive(user) {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "account is inactive")
	}

	token, err := s.generateAccessToken(account.Email, user.Role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	if err := s.accounts.TouchLastLogin(ctx, account.Email, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	}

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.Expiration.Seconds()),
		User:        *user,
	}, nil
}

// ParseToken validates an access token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) generateAccessToken(email string, role models.Role) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *AuthService) profileActive(user *models.DirectoryUser) bool {
	switch user.Role {
	case models.RoleStudent:
		return user.Student.Active
	case models.RoleTeacher:
		return user.Teacher.Active
	case models.RoleAdmin:
		return user.Admin.Active
	}
	return false
}
