package models

import "time"

// EnrollmentStatus enumerates the enrollment workflow states.
type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "pending"
	EnrollmentConfirmed EnrollmentStatus = "confirmed"
	EnrollmentCompleted EnrollmentStatus = "completed"
)

// ValidEnrollmentStatus reports whether s is a known enrollment status.
func ValidEnrollmentStatus(s EnrollmentStatus) bool {
	switch s {
	case EnrollmentPending, EnrollmentConfirmed, EnrollmentCompleted:
		return true
	}
	return false
}

// EnrollmentCreateRequest is the public payload for a new enrollment.
type EnrollmentCreateRequest struct {
	FirstName   string  `json:"first_name" validate:"required"`
	LastName    string  `json:"last_name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       string  `json:"phone" validate:"required"`
	ZipCode     string  `json:"zip_code" validate:"required"`
	Course      string  `json:"course" validate:"required"`
	StudentType string  `json:"student_type" validate:"required"`
	Country     string  `json:"country" validate:"required"`
	Comments    *string `json:"comments"`
}

// EnrollmentUpdateRequest is the admin partial update for an enrollment.
type EnrollmentUpdateRequest struct {
	Status *EnrollmentStatus `json:"status"`
}

// Enrollment is a course enrollment request.
type Enrollment struct {
	ID          string           `json:"id"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	ZipCode     string           `json:"zip_code"`
	Course      string           `json:"course"`
	StudentType string           `json:"student_type"`
	Country     string           `json:"country"`
	Comments    *string          `json:"comments"`
	Status      EnrollmentStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   *time.Time       `json:"updated_at"`
}
