package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment tracks a user's enrollment in a course with rolled-up progress
type Enrollment struct {
	gorm.Model
	UserID          uint       `json:"user_id" gorm:"index;not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID        uint       `json:"course_id" gorm:"index;not null;uniqueIndex:idx_enrollment_user_course"`
	Status          string     `json:"status" gorm:"default:'NOT_STARTED'"` // NOT_STARTED, IN_PROGRESS, COMPLETED
	Progress        float64    `json:"progress" gorm:"default:0"`           // Completion percentage (0-100)
	CurrentModuleID *uint      `json:"current_module_id"`
	CurrentLessonID *uint      `json:"current_lesson_id"`
	TimeSpent       int64      `json:"time_spent" gorm:"default:0"` // cumulative seconds, never decremented
	EnrolledAt      time.Time  `json:"enrolled_at"`
	StartedAt       *time.Time `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	IsDeleted       bool       `gorm:"default:false"`
}
