package models

import (
	"time"
)

// Enrollment inquiry statuses — set by admins, never derived.
const (
	EnrollmentNew       = "new"
	EnrollmentContacted = "contacted"
	EnrollmentEnrolled  = "enrolled"
	EnrollmentClosed    = "closed"
)

// Enrollment is an inquiry submitted through the public enrollment form.
type Enrollment struct {
	ID          string `json:"id" gorm:"primaryKey"`
	ParentName  string `json:"parent_name" gorm:"not null"`
	StudentName string `json:"student_name" gorm:"not null"`
	Email       string `json:"email" gorm:"not null"`
	Phone       string `json:"phone"`
	StudentAge  int    `json:"student_age"`
	Experience  string `json:"experience"` // e.g. "beginner", "knows the rules", "club player"
	Program     string `json:"program"`    // which coaching program they asked about
	Message     string `json:"message" gorm:"type:text"`

	Status string `json:"status" gorm:"default:'new';index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// ValidEnrollmentStatus reports whether s is an admin-settable inquiry status.
func ValidEnrollmentStatus(s string) bool {
	switch s {
	case EnrollmentNew, EnrollmentContacted, EnrollmentEnrolled, EnrollmentClosed:
		return true
	}
	return false
}
