package models

import "time"

type User struct {
	ID              string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"column:name;type:text" json:"name"`
	Email           string    `gorm:"column:email;type:text;uniqueIndex" json:"email"`
	PasswordHash    string    `gorm:"column:password_hash;type:text" json:"-"`
	CareerInterest  string    `gorm:"column:career_interest;type:text" json:"career_interest"`
	YearsExperience int       `gorm:"column:years_experience;type:integer" json:"years_experience"`
	CreatedAt       time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (User) TableName() string { return "users" }
