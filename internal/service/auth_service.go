package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/stempro/academy-api/internal/filedb"
	"github.com/stempro/academy-api/internal/mailer"
	"github.com/stempro/academy-api/internal/models"
	"github.com/stempro/academy-api/internal/repository"
	appErrors "github.com/stempro/academy-api/pkg/errors"
)

type authUserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, partial filedb.Record) (*models.User, error)
	SaveResetCode(ctx context.Context, email string, code models.ResetCode) error
	FindResetCode(ctx context.Context, email string) (*models.ResetCode, error)
	DeleteResetCode(ctx context.Context, email string) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	TokenSecret  string
	TokenExpiry  time.Duration
	ResetCodeTTL time.Duration
}

// AuthService provides registration, login and password reset use cases.
type AuthService struct {
	repo      authUserRepository
	validator *validator.Validate
	logger    *zap.Logger
	mail      MailDispatcher
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, validate *validator.Validate, logger *zap.Logger, mail MailDispatcher, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if mail == nil {
		mail = NopDispatcher()
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, mail: mail, config: config}
}

// Register creates a new account. The email uniqueness check is enforced by
// the repository inside the collection lock.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.UserPublic, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		Role:         req.Role,
		Country:      req.Country,
		PostalCode:   req.PostalCode,
		Comments:     req.Comments,
		PasswordHash: string(hash),
		IsActive:     true,
		IsAdmin:      false,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if err == repository.ErrEmailTaken {
			return nil, appErrors.Clone(appErrors.ErrEmailTaken, "email already registered")
		}
		return nil, storeError(err, "failed to create user")
	}

	s.mail.Dispatch(mailer.WelcomeMessage(created.Email, created.Name, string(created.Role)))

	public := created.Public()
	return &public, nil
}

// Login authenticates a user and issues an access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, storeError(err, "failed to fetch user")
	}
	if user == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "incorrect email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "incorrect email or password")
	}

	if !user.IsActive {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "account is inactive")
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		User:        user.Public(),
	}, nil
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "could not validate credentials")
	}
	return claims, nil
}

// CurrentUser resolves the user behind a validated token.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.UserPublic, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "failed to fetch user")
	}
	if user == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "could not validate credentials")
	}
	public := user.Public()
	return &public, nil
}

// CheckEmail reports whether an address is already registered.
func (s *AuthService) CheckEmail(ctx context.Context, email string) (bool, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return false, storeError(err, "failed to fetch user")
	}
	return user != nil, nil
}

// RequestPasswordReset generates and stores a 6-digit code. Whether the
// address exists is never revealed to the caller.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reset payload")
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return storeError(err, "failed to fetch user")
	}
	if user == nil {
		return nil
	}

	code, err := generateResetCode()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate reset code")
	}

	reset := models.ResetCode{
		Code:       code,
		Expiration: time.Now().UTC().Add(s.config.ResetCodeTTL),
	}
	if err := s.repo.SaveResetCode(ctx, req.Email, reset); err != nil {
		return storeError(err, "failed to store reset code")
	}

	s.mail.Dispatch(mailer.ResetCodeMessage(user.Email, code, s.config.ResetCodeTTL))
	return nil
}

// ConfirmPasswordReset verifies the code and replaces the password. The
// stored code is single use.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, req models.PasswordResetConfirm) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reset payload")
	}

	stored, err := s.repo.FindResetCode(ctx, req.Email)
	if err != nil {
		return storeError(err, "failed to fetch reset code")
	}
	if stored == nil {
		return appErrors.Clone(appErrors.ErrInvalidResetCode, "invalid or expired reset code")
	}

	if time.Now().UTC().After(stored.Expiration) {
		if err := s.repo.DeleteResetCode(ctx, req.Email); err != nil {
			s.logger.Warn("failed to delete expired reset code", zap.Error(err))
		}
		return appErrors.Clone(appErrors.ErrInvalidResetCode, "reset code has expired")
	}

	if stored.Code != req.Code {
		return appErrors.Clone(appErrors.ErrInvalidResetCode, "invalid reset code")
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return storeError(err, "failed to fetch user")
	}
	if user == nil {
		return appErrors.Clone(appErrors.ErrInvalidResetCode, "invalid or expired reset code")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	if _, err := s.repo.Update(ctx, user.ID, filedb.Record{"password_hash": string(hash)}); err != nil {
		return storeError(err, "failed to update password")
	}

	if err := s.repo.DeleteResetCode(ctx, req.Email); err != nil {
		s.logger.Warn("failed to delete consumed reset code", zap.Error(err))
	}

	s.mail.Dispatch(mailer.ResetConfirmationMessage(user.Email))
	return nil
}

// VerifyResetCode reports whether a reset code is currently valid without
// consuming it.
func (s *AuthService) VerifyResetCode(ctx context.Context, req models.VerifyCodeRequest) (bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid verify payload")
	}

	stored, err := s.repo.FindResetCode(ctx, req.Email)
	if err != nil {
		return false, storeError(err, "failed to fetch reset code")
	}
	if stored == nil {
		return false, nil
	}
	if time.Now().UTC().After(stored.Expiration) {
		return false, nil
	}
	return stored.Code == req.Code, nil
}

func (s *AuthService) generateToken(user *models.User) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.config.TokenExpiry)
	claims := models.JWTClaims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
