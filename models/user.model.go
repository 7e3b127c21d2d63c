package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ProfileImage     string     `gorm:"default:''"`
	Name             string     `gorm:"default:''"`
	Email            string     `gorm:"unique;not null"`
	Mobile           string     `gorm:"default:''"`
	Role             string     `gorm:"default:'YOUTH'"` // YOUTH, COMPANY, MUNICIPALITY, INSTRUCTOR, SUPERADMIN
	Password         string     `gorm:"not null"`
	BirthDate        *time.Time `json:"birth_date"`
	City             string
	Organization     string // Company or municipality name for non-youth roles
	IsEmailVerified  bool       `gorm:"default:false"`
	IsMobileVerified bool       `gorm:"default:false"`
	LastLogin        time.Time  `gorm:"default:NULL"`
	IsBlocked        bool       `gorm:"default:false"`
	BlockedUntil     *time.Time `json:"blocked_until"`
	IsDeleted        bool       `gorm:"default:false"`
}
