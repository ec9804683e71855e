package services

import (
	"pubquiz/models"

	"gorm.io/gorm"
)

// ScoreboardService is a read-only ranking view over completed sessions.
type ScoreboardService struct {
	db     *gorm.DB
	rounds *RoundService
}

func NewScoreboardService(db *gorm.DB, rounds *RoundService) *ScoreboardService {
	return &ScoreboardService{db: db, rounds: rounds}
}

type ScoreboardEntry struct {
	Rank          int    `json:"rank"`
	DisplayName   string `json:"display_name"`
	Score         int    `json:"score"`
	IsCurrentUser bool   `json:"is_current_user"`
}

// GetScoreboard ranks completed sessions for a round by total score.
// Ties are ordered by completion time, earliest first.
func (s *ScoreboardService) GetScoreboard(roundID uint, viewerUserID uint) ([]ScoreboardEntry, error) {
	var sessions []models.PlayerSession
	err := s.db.Where("round_id = ? AND completed_at IS NOT NULL", roundID).
		Preload("User").
		Order("total_score DESC, completed_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	entries := make([]ScoreboardEntry, len(sessions))
	for i, session := range sessions {
		entries[i] = ScoreboardEntry{
			Rank:          i + 1,
			DisplayName:   session.User.DisplayName,
			Score:         session.TotalScore,
			IsCurrentUser: session.UserID == viewerUserID,
		}
	}
	return entries, nil
}

// DefaultRoundID picks the round shown when none is requested: the active
// round if there is one, otherwise the most recent.
func (s *ScoreboardService) DefaultRoundID() (uint, error) {
	active, err := s.rounds.FindActive()
	if err != nil {
		return 0, err
	}
	if active != nil {
		return active.ID, nil
	}

	rounds, err := s.rounds.FindAll()
	if err != nil {
		return 0, err
	}
	if len(rounds) == 0 {
		return 0, nil
	}
	return rounds[0].ID, nil
}

// UserRank returns the viewer's 1-based rank for a round, or 0 when the
// viewer has no completed session there.
func (s *ScoreboardService) UserRank(roundID, userID uint) (int, error) {
	entries, err := s.GetScoreboard(roundID, userID)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		if entry.IsCurrentUser {
			return entry.Rank, nil
		}
	}
	return 0, nil
}
