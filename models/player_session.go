package models

import (
	"time"
)

// PlayerSession tracks one player's single attempt at a round. The
// (user, round) unique index is what enforces single-attempt semantics.
type PlayerSession struct {
	ID                     uint       `json:"id" gorm:"primaryKey"`
	UserID                 uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_sessions_user_round"`
	RoundID                uint       `json:"round_id" gorm:"not null;uniqueIndex:idx_sessions_user_round"`
	StartedAt              time.Time  `json:"started_at" gorm:"not null"`
	CompletedAt            *time.Time `json:"completed_at,omitempty"`
	TotalScore             int        `json:"total_score" gorm:"not null;default:0"`
	CurrentQuestionShownAt *time.Time `json:"current_question_shown_at,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`

	// Relationships
	User    User           `json:"user,omitempty"`
	Round   Round          `json:"round,omitempty"`
	Answers []PlayerAnswer `json:"answers,omitempty" gorm:"foreignKey:PlayerSessionID;constraint:OnDelete:CASCADE"`
}

func (s *PlayerSession) IsCompleted() bool {
	return s.CompletedAt != nil
}
