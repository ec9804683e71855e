package models

import (
	"time"
)

// PlayerAnswer is immutable once written. A nil AnswerOptionID means the
// timer ran out without a selection, which still counts as an answer.
type PlayerAnswer struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	PlayerSessionID uint      `json:"player_session_id" gorm:"not null;uniqueIndex:idx_answers_session_question"`
	QuestionID      uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_answers_session_question"`
	AnswerOptionID  *uint     `json:"answer_option_id,omitempty"`
	QuestionShownAt time.Time `json:"question_shown_at" gorm:"not null"`
	AnsweredAt      time.Time `json:"answered_at" gorm:"not null"`
	Score           int       `json:"score" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`

	// Relationships
	PlayerSession  PlayerSession `json:"-"`
	Question       Question      `json:"question,omitempty"`
	SelectedOption *AnswerOption `json:"selected_option,omitempty" gorm:"foreignKey:AnswerOptionID"`
}

func (a *PlayerAnswer) IsCorrect() bool {
	return a.SelectedOption != nil && a.SelectedOption.Correct
}
