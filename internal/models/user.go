package models

import "time"

// UserRole represents the self-declared role of a registering user.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleParent  UserRole = "parent"
	RoleTeacher UserRole = "teacher"
	RoleVisitor UserRole = "visitor"
	RoleAdmin   UserRole = "admin"
)

// User is the stored user document. Optional fields are kept nullable so
// stored records always carry every key the schema expects.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         UserRole   `json:"role"`
	Country      string     `json:"country"`
	PostalCode   string     `json:"postal_code"`
	Comments     *string    `json:"comments"`
	PasswordHash string     `json:"password_hash"`
	IsActive     bool       `json:"is_active"`
	IsAdmin      bool       `json:"is_admin"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

// UserPublic is the client-facing view of a user, without credentials.
type UserPublic struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       UserRole   `json:"role"`
	Country    string     `json:"country"`
	PostalCode string     `json:"postal_code"`
	Comments   *string    `json:"comments"`
	IsActive   bool       `json:"is_active"`
	IsAdmin    bool       `json:"is_admin"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

// Public strips credential material for API responses.
func (u User) Public() UserPublic {
	return UserPublic{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Country:    u.Country,
		PostalCode: u.PostalCode,
		Comments:   u.Comments,
		IsActive:   u.IsActive,
		IsAdmin:    u.IsAdmin,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"required,min=8"`
	Name       string   `json:"name" validate:"required"`
	Role       UserRole `json:"role" validate:"required,oneof=student parent teacher visitor admin"`
	Country    string   `json:"country" validate:"required"`
	PostalCode string   `json:"postal_code" validate:"required"`
	Comments   *string  `json:"comments"`
}

// UserUpdateRequest is a partial update. Nil fields are left untouched.
type UserUpdateRequest struct {
	Name       *string   `json:"name"`
	Role       *UserRole `json:"role" validate:"omitempty,oneof=student parent teacher visitor admin"`
	Country    *string   `json:"country"`
	PostalCode *string   `json:"postal_code"`
	Comments   *string   `json:"comments"`
	IsActive   *bool     `json:"is_active"`
	IsAdmin    *bool     `json:"is_admin"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
	Count int `json:"count"`
}
