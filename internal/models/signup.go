package models

import "time"

// SignupStatus enumerates the early-access outreach states. Counselors use
// "partner" where students use "enrolled".
type SignupStatus string

const (
	SignupPending   SignupStatus = "pending"
	SignupContacted SignupStatus = "contacted"
	SignupEnrolled  SignupStatus = "enrolled"
	SignupPartner   SignupStatus = "partner"
)

// StudentSignupRequest is the public payload for a student early-access signup.
type StudentSignupRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required"`
	ZipCode       string `json:"zip_code" validate:"required"`
	CurrentSchool string `json:"current_school" validate:"required"`
	GradeLevel    string `json:"grade_level" validate:"required"`
}

// CounselorSignupRequest is the public payload for a counselor signup.
type CounselorSignupRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	ZipCode string `json:"zip_code" validate:"required"`
}

// StudentSignup is an early-access signup from a student or parent.
type StudentSignup struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	Phone         string       `json:"phone"`
	ZipCode       string       `json:"zip_code"`
	CurrentSchool string       `json:"current_school"`
	GradeLevel    string       `json:"grade_level"`
	Status        SignupStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     *time.Time   `json:"updated_at"`
}

// CounselorSignup is an early-access signup from a counselor.
type CounselorSignup struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Phone     string       `json:"phone"`
	ZipCode   string       `json:"zip_code"`
	Status    SignupStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt *time.Time   `json:"updated_at"`
}

// SignupStats summarises early-access signups for the admin dashboard.
type SignupStats struct {
	TotalStudents     int            `json:"total_students"`
	TotalCounselors   int            `json:"total_counselors"`
	TotalSignups      int            `json:"total_signups"`
	GradeDistribution map[string]int `json:"grade_distribution"`
	StudentStatus     map[string]int `json:"student_status"`
	CounselorStatus   map[string]int `json:"counselor_status"`
}
