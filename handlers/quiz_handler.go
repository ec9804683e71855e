package handlers

import (
	"net/http"
	"strconv"

	"pubquiz/middleware"
	"pubquiz/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type QuizHandler struct {
	quizService  *services.QuizService
	roundService *services.RoundService
	timing       *services.TimingStore
	log          zerolog.Logger
}

func NewQuizHandler(quizService *services.QuizService, roundService *services.RoundService, timing *services.TimingStore, logger zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		quizService:  quizService,
		roundService: roundService,
		timing:       timing,
		log:          logger,
	}
}

type SubmitAnswerRequest struct {
	PlayerSessionID uint  `json:"player_session_id" binding:"required"`
	QuestionID      uint  `json:"question_id" binding:"required"`
	AnswerID        *uint `json:"answer_id"`
}

// Home reports the active round and whether the player may start it.
func (h *QuizHandler) Home(c *gin.Context) {
	user, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	round, err := h.roundService.FindActive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if round == nil {
		c.JSON(http.StatusOK, gin.H{"active_round": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"active_round":  round,
		"can_play":      h.quizService.CanPlay(user.ID, round.ID),
		"has_completed": h.quizService.HasCompleted(user.ID, round.ID),
		"timer_seconds": h.quizService.TimerSeconds(),
	})
}

// Start begins or resumes play for a round and records when the current
// question was shown.
func (h *QuizHandler) Start(c *gin.Context) {
	user, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	roundID, err := strconv.ParseUint(c.Param("roundId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return
	}

	if !h.quizService.CanPlay(user.ID, uint(roundID)) {
		if h.quizService.HasCompleted(user.ID, uint(roundID)) {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already completed this quiz"})
		} else {
			c.JSON(http.StatusConflict, gin.H{"error": "This quiz is not available"})
		}
		return
	}

	state, err := h.quizService.StartOrResume(user, uint(roundID))
	if err != nil {
		status := statusFor(err)
		c.JSON(status, gin.H{"error": "Could not start quiz"})
		return
	}

	h.captureShownAt(c, state)
	c.JSON(http.StatusOK, state)
}

// SubmitAnswer scores the current question. The shown-at timestamp comes
// from the timing store; if it was lost (Redis restart, expired key) we fall
// back to the timestamp persisted on the session, and as a last resort the
// engine assumes the full timer elapsed.
func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	user, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shownAt, found := h.timing.Take(c.Request.Context(), req.PlayerSessionID)
	if !found {
		if session, err := h.quizService.GetSession(req.PlayerSessionID); err == nil && session.CurrentQuestionShownAt != nil {
			shownAt = *session.CurrentQuestionShownAt
		}
	}

	result, err := h.quizService.SubmitAnswer(user, req.PlayerSessionID, req.QuestionID, req.AnswerID, shownAt)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "Could not submit answer"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Continue resumes an interrupted session.
func (h *QuizHandler) Continue(c *gin.Context) {
	user, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sessionID, err := strconv.ParseUint(c.Param("sessionId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	session, err := h.quizService.GetSession(uint(sessionID))
	if err != nil || session.UserID != user.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		return
	}

	if session.IsCompleted() {
		c.JSON(http.StatusOK, gin.H{"completed": true, "session_id": session.ID})
		return
	}

	if !h.quizService.CanPlay(user.ID, session.RoundID) {
		c.JSON(http.StatusConflict, gin.H{"error": "This quiz is not available"})
		return
	}

	state, err := h.quizService.StartOrResume(user, session.RoundID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "Could not resume quiz"})
		return
	}

	h.captureShownAt(c, state)
	c.JSON(http.StatusOK, state)
}

// Result returns the full answer log for a finished or in-progress session.
func (h *QuizHandler) Result(c *gin.Context) {
	user, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sessionID, err := strconv.ParseUint(c.Param("sessionId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	session, err := h.quizService.GetSessionWithAnswers(uint(sessionID))
	if err != nil || session.UserID != user.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		return
	}

	correctCount := 0
	for i := range session.Answers {
		if session.Answers[i].IsCorrect() {
			correctCount++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"session":         session,
		"total_questions": len(session.Answers),
		"correct_count":   correctCount,
		"incorrect_count": len(session.Answers) - correctCount,
	})
}

func (h *QuizHandler) History(c *gin.Context) {
	user, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	history, err := h.quizService.PlayerHistory(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (h *QuizHandler) captureShownAt(c *gin.Context, state *services.QuizState) {
	if state.IsCompleted || state.Session == nil {
		return
	}
	if err := h.timing.Put(c.Request.Context(), state.Session.ID, state.QuestionShownAt); err != nil {
		h.log.Warn().Err(err).Uint("session_id", state.Session.ID).Msg("could not store shown-at timestamp")
	}
}
