package models

import (
	"time"
)

// Assessment is a questionnaire definition. Assessments are kept in the
// schema for data continuity but have no HTTP routes; the feature is
// disabled.
type Assessment struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"not null" json:"title"`
	Description string      `json:"description"`
	Questions   string      `gorm:"type:text" json:"questions"`
	Tags        StringArray `gorm:"type:text[]" json:"tags"`
	IsActive    bool        `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// AssessmentResult stores a user's submitted answers and computed score.
type AssessmentResult struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	AssessmentID uint       `gorm:"not null;index" json:"assessmentId"`
	Assessment   Assessment `gorm:"foreignKey:AssessmentID;constraint:OnDelete:CASCADE" json:"-"`
	UserID       uint       `gorm:"not null;index" json:"userId"`
	User         User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Answers      string     `gorm:"type:text" json:"answers"`
	Score        int        `json:"score"`
	CreatedAt    time.Time  `json:"createdAt"`
}
