package businessplan

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BusinessPlan holds a youth user's entrepreneurship plan. Section content is
// semi-structured JSON filled in from the plan editor.
type BusinessPlan struct {
	gorm.Model
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	Title       string         `json:"title"`
	Summary     string         `json:"summary" gorm:"type:text"`
	Sector      string         `json:"sector"`
	Status      string         `json:"status" gorm:"default:'DRAFT'"` // DRAFT, SUBMITTED, REVIEWED
	Sections    datatypes.JSON `json:"sections" gorm:"type:jsonb"`
	Completion  float64        `json:"completion" gorm:"default:0"`   // derived, 0-100
	ImpactScore float64        `json:"impact_score" gorm:"default:0"` // derived, 0-100
	IsDeleted   bool           `gorm:"default:false"`
}
