package course

import (
	"time"

	"gorm.io/gorm"
)

// ModuleCertificate is issued when a user completes a module that carries a
// certificate. At most one per (module, user); immutable once created.
type ModuleCertificate struct {
	gorm.Model
	UserID         uint      `json:"user_id" gorm:"index;not null;uniqueIndex:idx_module_cert_user"`
	ModuleID       uint      `json:"module_id" gorm:"index;not null;uniqueIndex:idx_module_cert_user"`
	EnrollmentID   uint      `json:"enrollment_id" gorm:"index;not null"`
	CertificateURL string    `json:"certificate_url"`
	Grade          int       `json:"grade"` // 0-100
	CompletedAt    time.Time `json:"completed_at"`
}

// Certificate is the course-level completion certificate. At most one per
// (course, user); immutable once issued.
type Certificate struct {
	gorm.Model
	UserID           uint      `json:"user_id" gorm:"index;not null;uniqueIndex:idx_course_cert_user"`
	CourseID         uint      `json:"course_id" gorm:"index;not null;uniqueIndex:idx_course_cert_user"`
	EnrollmentID     uint      `json:"enrollment_id" gorm:"index;not null"`
	VerificationCode string    `json:"verification_code" gorm:"unique"`
	DigitalSignature string    `json:"digital_signature"`
	CertificateURL   string    `json:"certificate_url"`
	IsValid          bool      `json:"is_valid" gorm:"default:true"`
	IssuedAt         time.Time `json:"issued_at"`
}
