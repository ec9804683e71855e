package models

import (
	"time"
)

type Role string

const (
	RolePlayer Role = "player"
	RoleAdmin  Role = "admin"
)

type Language string

const (
	LanguageDE Language = "de"
	LanguageFR Language = "fr"
)

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Email       string    `json:"email" gorm:"uniqueIndex;not null"`
	DisplayName string    `json:"display_name" gorm:"not null"`
	Role        Role      `json:"role" gorm:"not null;default:'player'"`
	Language    Language  `json:"language" gorm:"not null;size:2;default:'de'"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
