package models

import (
	"time"
)

type Question struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	RoundID       uint      `json:"round_id" gorm:"not null;index"`
	OrderIndex    int       `json:"order_index" gorm:"not null"`
	Language      Language  `json:"language" gorm:"not null;size:2;default:'de'"`
	Text          *string   `json:"text,omitempty"`
	ImageFilename *string   `json:"image_filename,omitempty"`
	Explanation   *string   `json:"explanation,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Round   Round          `json:"round,omitempty"`
	Options []AnswerOption `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

// CorrectOption returns the option marked correct, or nil if the question
// has not been fully imported or edited yet.
func (q *Question) CorrectOption() *AnswerOption {
	for i := range q.Options {
		if q.Options[i].Correct {
			return &q.Options[i]
		}
	}
	return nil
}
