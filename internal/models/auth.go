package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims is the access token payload.
type JWTClaims struct {
	UserID  string `json:"uid"`
	Email   string `json:"sub_email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// LoginRequest is the credential payload for token issuance.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresIn   int64      `json:"expires_in"`
	User        UserPublic `json:"user"`
}

// PasswordResetRequest initiates the reset-code flow.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirm completes the reset-code flow.
type PasswordResetConfirm struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// VerifyCodeRequest checks a reset code without consuming it.
type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// ResetCode is the stored reset-code document, keyed by lowercased email.
type ResetCode struct {
	Code       string    `json:"code"`
	Expiration time.Time `json:"expiration"`
}
