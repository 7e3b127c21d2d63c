package course

import (
	"time"

	"gorm.io/gorm"
)

// LessonProgress is the per-lesson watch/completion record for one enrollment.
// One row per (enrollment, lesson) pair, enforced by the composite unique index.
type LessonProgress struct {
	gorm.Model
	EnrollmentID  uint       `json:"enrollment_id" gorm:"index;not null;uniqueIndex:idx_progress_enrollment_lesson"`
	LessonID      uint       `json:"lesson_id" gorm:"index;not null;uniqueIndex:idx_progress_enrollment_lesson"`
	IsCompleted   bool       `json:"is_completed" gorm:"default:false"`
	TimeSpent     int        `json:"time_spent" gorm:"default:0"`     // seconds, monotonically non-decreasing
	VideoProgress float64    `json:"video_progress" gorm:"default:0"` // fraction watched, 0..1
	LastWatchedAt time.Time  `json:"last_watched_at"`
	CompletedAt   *time.Time `json:"completed_at"` // set once, on first completion
}
