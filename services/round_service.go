package services

import (
	"errors"
	"time"

	"pubquiz/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type RoundService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewRoundService(db *gorm.DB, logger zerolog.Logger) *RoundService {
	return &RoundService{db: db, log: logger}
}

type RoundRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required" time_format:"2006-01-02"`
	EndDate   time.Time `json:"end_date" binding:"required" time_format:"2006-01-02"`
}

func (s *RoundService) Create(req *RoundRequest) (*models.Round, error) {
	if req.StartDate.After(req.EndDate) {
		return nil, ErrInvalidDateRange
	}

	round := models.Round{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := s.db.Create(&round).Error; err != nil {
		return nil, err
	}
	return &round, nil
}

func (s *RoundService) Update(id uint, req *RoundRequest) (*models.Round, error) {
	if req.StartDate.After(req.EndDate) {
		return nil, ErrInvalidDateRange
	}

	round, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	round.Name = req.Name
	round.StartDate = req.StartDate
	round.EndDate = req.EndDate
	if err := s.db.Save(round).Error; err != nil {
		return nil, err
	}
	return round, nil
}

// Activate makes the round the single active one. Both updates run in one
// transaction so a concurrent reader never sees two active rounds.
func (s *RoundService) Activate(id uint) (*models.Round, error) {
	var round models.Round
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&round, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoundNotFound
			}
			return err
		}
		if err := tx.Model(&models.Round{}).
			Where("active = ?", true).
			Update("active", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&round).Update("active", true).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Uint("round_id", id).Str("name", round.Name).Msg("round activated")
	return &round, nil
}

func (s *RoundService) Deactivate(id uint) (*models.Round, error) {
	round, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(round).Update("active", false).Error; err != nil {
		return nil, err
	}
	return round, nil
}

// Delete removes the round; questions and their options cascade.
func (s *RoundService) Delete(id uint) error {
	result := s.db.Delete(&models.Round{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRoundNotFound
	}
	return nil
}

func (s *RoundService) FindAll() ([]models.Round, error) {
	var rounds []models.Round
	err := s.db.Order("start_date DESC").Find(&rounds).Error
	return rounds, err
}

func (s *RoundService) FindByID(id uint) (*models.Round, error) {
	var round models.Round
	err := s.db.First(&round, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoundNotFound
	}
	if err != nil {
		return nil, err
	}
	return &round, nil
}

func (s *RoundService) FindActive() (*models.Round, error) {
	var round models.Round
	err := s.db.Where("active = ?", true).First(&round).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// QuestionCounts returns the number of questions per round for the admin list.
func (s *RoundService) QuestionCounts() (map[uint]int64, error) {
	type row struct {
		RoundID uint
		Count   int64
	}
	var rows []row
	err := s.db.Model(&models.Question{}).
		Select("round_id, count(*) as count").
		Group("round_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.RoundID] = r.Count
	}
	return counts, nil
}

// Questions lists a round's questions with options in play order.
func (s *RoundService) Questions(roundID uint) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.Where("round_id = ?", roundID).
		Preload("Options", optionOrder).
		Order("order_index, language").
		Find(&questions).Error
	return questions, err
}
