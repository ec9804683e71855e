package services

import (
	"errors"
	"strings"

	"pubquiz/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// QuestionService covers admin edits to individual questions. Imports create
// questions in bulk; this service only rewrites existing ones.
type QuestionService struct {
	db     *gorm.DB
	images *ImageService
	log    zerolog.Logger
}

func NewQuestionService(db *gorm.DB, images *ImageService, logger zerolog.Logger) *QuestionService {
	return &QuestionService{db: db, images: images, log: logger}
}

// UpdateQuestionRequest rewrites a question's text, explanation, image and
// its four options by positional option-ID mapping.
type UpdateQuestionRequest struct {
	Text          string    `json:"text"`
	Explanation   string    `json:"explanation"`
	OptionIDs     [4]uint   `json:"option_ids" binding:"required"`
	OptionTexts   [4]string `json:"option_texts" binding:"required"`
	CorrectAnswer int       `json:"correct_answer" binding:"required,min=1,max=4"`
	ImageURL      string    `json:"image_url"`
	ImageFilename string    `json:"image_filename"`
	RemoveImage   bool      `json:"remove_image"`
}

func (s *QuestionService) Update(id uint, req *UpdateQuestionRequest) (*models.Question, error) {
	var question models.Question
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Options", optionOrder).First(&question, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuestionNotFound
			}
			return err
		}

		question.Text = optional(req.Text)
		question.Explanation = optional(req.Explanation)

		switch {
		case req.RemoveImage:
			s.dropStoredImage(question.ImageFilename)
			question.ImageFilename = nil
		case req.ImageFilename != "":
			s.dropStoredImage(question.ImageFilename)
			question.ImageFilename = &req.ImageFilename
		case req.ImageURL != "":
			s.dropStoredImage(question.ImageFilename)
			question.ImageFilename = &req.ImageURL
		}

		if err := tx.Save(&question).Error; err != nil {
			return err
		}

		for i := range question.Options {
			opt := &question.Options[i]
			for pos := 0; pos < 4; pos++ {
				if req.OptionIDs[pos] != opt.ID {
					continue
				}
				opt.Text = optional(req.OptionTexts[pos])
				opt.Correct = req.CorrectAnswer == pos+1
				if err := tx.Save(opt).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// Delete removes the question and its options.
func (s *QuestionService) Delete(id uint) error {
	var question models.Question
	if err := s.db.First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}

	if err := s.db.Delete(&question).Error; err != nil {
		return err
	}
	s.dropStoredImage(question.ImageFilename)
	return nil
}

// dropStoredImage deletes a locally stored file. External URLs are left
// alone; delete failures are logged, never fatal.
func (s *QuestionService) dropStoredImage(filename *string) {
	if filename == nil || strings.HasPrefix(*filename, "http") {
		return
	}
	if err := s.images.Delete(*filename); err != nil {
		s.log.Warn().Err(err).Str("filename", *filename).Msg("could not delete image")
	}
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
