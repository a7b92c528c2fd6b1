package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Profile is the career profile behind the dashboard. It starts out seeded
// from the registration fields on User and grows as the user fills in
// job-search details. CV text is not stored here; that belongs to the CV
// records.
type Profile struct {
	UserID      string `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	FullName    string `gorm:"column:full_name;type:text" json:"full_name"`
	PhoneNumber string `gorm:"column:phone_number;type:text" json:"phone_number"`
	Headline    string `gorm:"column:headline;type:text" json:"headline"`

	CareerInterest  string `gorm:"column:career_interest;type:text" json:"career_interest"`
	YearsExperience int    `gorm:"column:years_experience;type:integer" json:"years_experience"`

	Skills pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`
	// Roles the user is practicing interviews for.
	TargetRoles pq.StringArray `gorm:"column:target_roles;type:text[]" json:"target_roles"`

	// JSONB (raw JSON, flexible structure)
	Experience     datatypes.JSON `gorm:"column:experience;type:jsonb" json:"experience"`
	Education      datatypes.JSON `gorm:"column:education;type:jsonb" json:"education"`
	JobPreferences datatypes.JSON `gorm:"column:job_preferences;type:jsonb" json:"job_preferences"`

	// pgvector, reserved for CV/job matching
	CVEmbedding pgvector.Vector `gorm:"column:cv_embedding;type:vector(768)" json:"cv_embedding"`

	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
