package models

import "time"

// JobApplicationStatus enumerates the hiring workflow states.
type JobApplicationStatus string

const (
	ApplicationNew         JobApplicationStatus = "new"
	ApplicationReviewing   JobApplicationStatus = "reviewing"
	ApplicationInterviewed JobApplicationStatus = "interviewed"
	ApplicationRejected    JobApplicationStatus = "rejected"
	ApplicationAccepted    JobApplicationStatus = "accepted"
)

// ValidJobApplicationStatus reports whether s is a known application status.
func ValidJobApplicationStatus(s JobApplicationStatus) bool {
	switch s {
	case ApplicationNew, ApplicationReviewing, ApplicationInterviewed, ApplicationRejected, ApplicationAccepted:
		return true
	}
	return false
}

// JobApplicationCreateRequest is the public payload for a new application.
type JobApplicationCreateRequest struct {
	Name         string  `json:"name" validate:"required"`
	Email        string  `json:"email" validate:"required,email"`
	Phone        string  `json:"phone" validate:"required"`
	Position     string  `json:"position" validate:"required"`
	ResumeURL    *string `json:"resume_url" validate:"omitempty,url"`
	CoverLetter  *string `json:"cover_letter"`
	LinkedinURL  *string `json:"linkedin_url" validate:"omitempty,url"`
	PortfolioURL *string `json:"portfolio_url" validate:"omitempty,url"`
}

// JobApplicationUpdateRequest is the admin partial update for an application.
type JobApplicationUpdateRequest struct {
	Status *JobApplicationStatus `json:"status"`
	Notes  *string               `json:"notes"`
}

// JobApplication is a submitted job application.
type JobApplication struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	Phone        string               `json:"phone"`
	Position     string               `json:"position"`
	ResumeURL    *string              `json:"resume_url"`
	CoverLetter  *string              `json:"cover_letter"`
	LinkedinURL  *string              `json:"linkedin_url"`
	PortfolioURL *string              `json:"portfolio_url"`
	Status       JobApplicationStatus `json:"status"`
	Notes        *string              `json:"notes"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    *time.Time           `json:"updated_at"`
}

// Position describes an open role shown on the careers page.
type Position struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Location string `json:"location"`
}

// JobApplicationSummary is the compact listing used in stats responses.
type JobApplicationSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  string    `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// JobApplicationStats summarises applications for the admin dashboard.
type JobApplicationStats struct {
	Total      int                     `json:"total"`
	ByStatus   map[string]int          `json:"by_status"`
	ByPosition map[string]int          `json:"by_position"`
	Recent     []JobApplicationSummary `json:"recent_applications"`
}
