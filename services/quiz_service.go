package services

import (
	"errors"
	"math/rand"
	"time"

	"pubquiz/config"
	"pubquiz/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// QuizService owns the per-player session state machine: one attempt per
// (user, round), one answer per question, time-decayed scoring. The current
// question is always derived from the number of recorded answers rather than
// a stored cursor, so a session survives crashes and reconnects without any
// consistency repair.
type QuizService struct {
	db  *gorm.DB
	log zerolog.Logger

	timerSeconds int
	maxScore     int
	minScore     int

	// now is swapped out in tests for deterministic scoring.
	now func() time.Time
}

func NewQuizService(db *gorm.DB, cfg *config.Config, logger zerolog.Logger) *QuizService {
	return &QuizService{
		db:           db,
		log:          logger,
		timerSeconds: cfg.TimerSeconds,
		maxScore:     cfg.MaxScore,
		minScore:     cfg.MinScore,
		now:          time.Now,
	}
}

// TimerSeconds exposes the per-question time budget for rendering.
func (s *QuizService) TimerSeconds() int {
	return s.timerSeconds
}

// QuizState is the view served to a player for the current question.
type QuizState struct {
	Session              *models.PlayerSession `json:"session"`
	CurrentQuestionIndex int                   `json:"current_question_index"`
	TotalQuestions       int                   `json:"total_questions"`
	CurrentQuestion      *QuestionView         `json:"current_question,omitempty"`
	QuestionShownAt      time.Time             `json:"question_shown_at"`
	TimerSeconds         int                   `json:"timer_seconds"`
	IsCompleted          bool                  `json:"is_completed"`
}

// QuestionView deliberately omits the correct flag on options.
type QuestionView struct {
	ID            uint         `json:"id"`
	Text          *string      `json:"text,omitempty"`
	ImageFilename *string      `json:"image_filename,omitempty"`
	Options       []OptionView `json:"options"`
}

type OptionView struct {
	ID            uint    `json:"id"`
	Text          *string `json:"text,omitempty"`
	ImageFilename *string `json:"image_filename,omitempty"`
}

type AnswerResult struct {
	Correct         bool                `json:"correct"`
	Score           int                 `json:"score"`
	CorrectOption   models.AnswerOption `json:"correct_option"`
	Explanation     *string             `json:"explanation,omitempty"`
	HasNextQuestion bool                `json:"has_next_question"`
}

// CanPlay reports whether the user may start or continue the round: the
// round must be active and the user's session, if any, not yet completed.
func (s *QuizService) CanPlay(userID, roundID uint) bool {
	var round models.Round
	if err := s.db.First(&round, roundID).Error; err != nil {
		return false
	}
	if !round.Active {
		return false
	}

	var session models.PlayerSession
	err := s.db.Where("user_id = ? AND round_id = ?", userID, roundID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true
	}
	if err != nil {
		return false
	}
	return !session.IsCompleted()
}

// HasCompleted reports whether the user already finished the round.
func (s *QuizService) HasCompleted(userID, roundID uint) bool {
	var session models.PlayerSession
	err := s.db.Where("user_id = ? AND round_id = ?", userID, roundID).First(&session).Error
	if err != nil {
		return false
	}
	return session.IsCompleted()
}

// StartOrResume loads or creates the user's session for the round and
// derives the current question from the answered count. Repeated calls
// without a submission return the same question and index.
func (s *QuizService) StartOrResume(user *models.User, roundID uint) (*QuizState, error) {
	var state *QuizState

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var round models.Round
		if err := tx.First(&round, roundID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoundNotFound
			}
			return err
		}
		if !round.Active {
			return ErrRoundNotActive
		}

		var session models.PlayerSession
		err := tx.Where("user_id = ? AND round_id = ?", user.ID, roundID).First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			session = models.PlayerSession{
				UserID:    user.ID,
				RoundID:   roundID,
				StartedAt: s.now(),
			}
			if err := tx.Create(&session).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if session.IsCompleted() {
			state = &QuizState{
				Session:     &session,
				IsCompleted: true,
			}
			return nil
		}

		questions, err := s.loadQuestions(tx, roundID, user.Language)
		if err != nil {
			return err
		}

		var answeredCount int64
		if err := tx.Model(&models.PlayerAnswer{}).
			Where("player_session_id = ?", session.ID).
			Count(&answeredCount).Error; err != nil {
			return err
		}

		shownAt := s.now()
		var current *QuestionView
		if int(answeredCount) < len(questions) {
			current = newQuestionView(&questions[answeredCount])
			session.CurrentQuestionShownAt = &shownAt
			if err := tx.Model(&session).
				Update("current_question_shown_at", shownAt).Error; err != nil {
				return err
			}
		}

		state = &QuizState{
			Session:              &session,
			CurrentQuestionIndex: int(answeredCount),
			TotalQuestions:       len(questions),
			CurrentQuestion:      current,
			QuestionShownAt:      shownAt,
			TimerSeconds:         s.timerSeconds,
			IsCompleted:          current == nil,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// SubmitAnswer records a single immutable answer, scores it, and completes
// the session when the last question has been answered. answerID may be nil
// (timeout / no selection), which always scores zero. A zero questionShownAt
// means the caller lost the timing data; the engine then assumes the full
// timer elapsed, which for a correct answer yields the minimum score.
func (s *QuizService) SubmitAnswer(user *models.User, sessionID, questionID uint, answerID *uint, questionShownAt time.Time) (*AnswerResult, error) {
	var result *AnswerResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var session models.PlayerSession
		if err := tx.First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if session.UserID != user.ID {
			return ErrNotSessionOwner
		}
		if session.IsCompleted() {
			return ErrSessionCompleted
		}

		var question models.Question
		if err := tx.Preload("Options", optionOrder).First(&question, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuestionNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&models.PlayerAnswer{}).
			Where("player_session_id = ? AND question_id = ?", session.ID, questionID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyAnswered
		}

		questions, err := s.loadQuestions(tx, session.RoundID, user.Language)
		if err != nil {
			return err
		}

		var answeredCount int64
		if err := tx.Model(&models.PlayerAnswer{}).
			Where("player_session_id = ?", session.ID).
			Count(&answeredCount).Error; err != nil {
			return err
		}

		// The derived cursor only stays sound if answers arrive in play
		// order, so the submission must target the current question.
		if int(answeredCount) >= len(questions) || questions[answeredCount].ID != questionID {
			return ErrQuestionNotFound
		}

		var selected *models.AnswerOption
		if answerID != nil {
			for i := range question.Options {
				if question.Options[i].ID == *answerID {
					selected = &question.Options[i]
					break
				}
			}
		}

		answeredAt := s.now()
		if questionShownAt.IsZero() {
			questionShownAt = answeredAt.Add(-time.Duration(s.timerSeconds) * time.Second)
		}
		correct := selected != nil && selected.Correct
		score := s.CalculateScore(questionShownAt, answeredAt, correct)

		answer := models.PlayerAnswer{
			PlayerSessionID: session.ID,
			QuestionID:      questionID,
			QuestionShownAt: questionShownAt,
			AnsweredAt:      answeredAt,
			Score:           score,
		}
		if selected != nil {
			answer.AnswerOptionID = &selected.ID
		}
		if err := tx.Create(&answer).Error; err != nil {
			// The unique index on (session, question) is the authoritative
			// guard; a concurrent duplicate lands here instead of racing past
			// the count check above.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyAnswered
			}
			return err
		}

		if err := tx.Model(&session).
			Update("total_score", gorm.Expr("total_score + ?", score)).Error; err != nil {
			return err
		}

		answeredCount++
		if int(answeredCount) >= len(questions) {
			completedAt := s.now()
			if err := tx.Model(&session).Updates(map[string]interface{}{
				"completed_at":              completedAt,
				"current_question_shown_at": nil,
			}).Error; err != nil {
				return err
			}
			s.log.Info().
				Uint("session_id", session.ID).
				Uint("user_id", user.ID).
				Msg("session completed")
		}

		correctOption := question.CorrectOption()
		if correctOption == nil {
			// An imported question always has exactly one correct option;
			// a missing one means the catalog is broken for this question.
			return ErrQuestionNotFound
		}

		result = &AnswerResult{
			Correct:         correct,
			Score:           score,
			CorrectOption:   *correctOption,
			Explanation:     question.Explanation,
			HasNextQuestion: int(answeredCount) < len(questions),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CalculateScore is the pure scoring function: 0 for wrong answers, maxScore
// for instant correct answers, minScore at or beyond the timer, linear in
// between with truncation toward zero.
func (s *QuizService) CalculateScore(shownAt, answeredAt time.Time, correct bool) int {
	if !correct {
		return 0
	}

	elapsed := answeredAt.Sub(shownAt).Seconds()
	switch {
	case elapsed <= 0:
		return s.maxScore
	case elapsed >= float64(s.timerSeconds):
		return s.minScore
	default:
		scoreRange := float64(s.maxScore - s.minScore)
		timeRatio := elapsed / float64(s.timerSeconds)
		return int(float64(s.maxScore) - scoreRange*timeRatio)
	}
}

// PlayerHistory lists the user's sessions, most recently started first.
func (s *QuizService) PlayerHistory(userID uint) ([]models.PlayerSession, error) {
	var sessions []models.PlayerSession
	err := s.db.Where("user_id = ?", userID).
		Preload("Round").
		Order("started_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// GetSession fetches a session without its answers.
func (s *QuizService) GetSession(id uint) (*models.PlayerSession, error) {
	var session models.PlayerSession
	err := s.db.Preload("Round").First(&session, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSessionWithAnswers fetches a session with its full answer log for the
// result page, answers ordered by question play order.
func (s *QuizService) GetSessionWithAnswers(id uint) (*models.PlayerSession, error) {
	var session models.PlayerSession
	err := s.db.
		Preload("Round").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Joins("JOIN questions ON questions.id = player_answers.question_id").
				Order("questions.order_index")
		}).
		Preload("Answers.Question").
		Preload("Answers.Question.Options", optionOrder).
		Preload("Answers.SelectedOption").
		First(&session, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// loadQuestions returns the round's ordered question list for the given
// language. Rounds imported in a single language are served to everyone.
func (s *QuizService) loadQuestions(tx *gorm.DB, roundID uint, language models.Language) ([]models.Question, error) {
	var questions []models.Question
	err := tx.Where("round_id = ? AND language = ?", roundID, language).
		Preload("Options", optionOrder).
		Order("order_index").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		err = tx.Where("round_id = ?", roundID).
			Preload("Options", optionOrder).
			Order("order_index").
			Find(&questions).Error
		if err != nil {
			return nil, err
		}
	}
	return questions, nil
}

func optionOrder(db *gorm.DB) *gorm.DB {
	return db.Order("answer_options.order_index")
}

// newQuestionView copies a question for play, shuffling the displayed option
// order. The shuffle is cosmetic; scoring only looks at option IDs.
func newQuestionView(q *models.Question) *QuestionView {
	view := &QuestionView{
		ID:            q.ID,
		Text:          q.Text,
		ImageFilename: q.ImageFilename,
		Options:       make([]OptionView, len(q.Options)),
	}
	for i, opt := range q.Options {
		view.Options[i] = OptionView{
			ID:            opt.ID,
			Text:          opt.Text,
			ImageFilename: opt.ImageFilename,
		}
	}
	rand.Shuffle(len(view.Options), func(i, j int) {
		view.Options[i], view.Options[j] = view.Options[j], view.Options[i]
	})
	return view
}
