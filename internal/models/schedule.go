package models

import "time"

// ScheduleStatus enumerates the consultation workflow states.
type ScheduleStatus string

const (
	SchedulePending   ScheduleStatus = "pending"
	ScheduleScheduled ScheduleStatus = "scheduled"
	ScheduleCompleted ScheduleStatus = "completed"
	ScheduleCancelled ScheduleStatus = "cancelled"
)

// ValidScheduleStatus reports whether s is a known schedule status.
func ValidScheduleStatus(s ScheduleStatus) bool {
	switch s {
	case SchedulePending, ScheduleScheduled, ScheduleCompleted, ScheduleCancelled:
		return true
	}
	return false
}

// ScheduleCreateRequest is the public payload for a consultation request.
type ScheduleCreateRequest struct {
	FirstName   string  `json:"first_name" validate:"required"`
	LastName    string  `json:"last_name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       string  `json:"phone" validate:"required"`
	Country     *string `json:"country"`
	ServiceType *string `json:"service_type"`
	Message     string  `json:"message"`
}

// ScheduleUpdateRequest is the admin partial update for a schedule.
type ScheduleUpdateRequest struct {
	Status        *ScheduleStatus `json:"status"`
	ScheduledDate *time.Time      `json:"scheduled_date"`
	Notes         *string         `json:"notes"`
}

// Schedule is a consultation scheduling request.
type Schedule struct {
	ID                 string         `json:"id"`
	FirstName          string         `json:"first_name"`
	LastName           string         `json:"last_name"`
	Email              string         `json:"email"`
	Phone              string         `json:"phone"`
	Country            *string        `json:"country"`
	ServiceType        *string        `json:"service_type"`
	Message            string         `json:"message"`
	Status             ScheduleStatus `json:"status"`
	ScheduledDate      *time.Time     `json:"scheduled_date"`
	Notes              *string        `json:"notes"`
	CancellationReason *string        `json:"cancellation_reason"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          *time.Time     `json:"updated_at"`
}

// ScheduleStats summarises schedule requests for the admin dashboard.
type ScheduleStats struct {
	Total         int            `json:"total"`
	Pending       int            `json:"pending"`
	Scheduled     int            `json:"scheduled"`
	Completed     int            `json:"completed"`
	Cancelled     int            `json:"cancelled"`
	ByServiceType map[string]int `json:"by_service_type"`
	ByCountry     map[string]int `json:"by_country"`
}
