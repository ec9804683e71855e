package models

import (
	"time"
)

type AnswerOption struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	QuestionID    uint      `json:"question_id" gorm:"not null;index"`
	OrderIndex    int       `json:"order_index" gorm:"not null"`
	Text          *string   `json:"text,omitempty"`
	ImageFilename *string   `json:"image_filename,omitempty"`
	Correct       bool      `json:"correct" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Question Question `json:"question,omitempty"`
}
