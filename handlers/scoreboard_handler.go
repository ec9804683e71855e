package handlers

import (
	"net/http"
	"strconv"

	"pubquiz/services"

	"github.com/gin-gonic/gin"
)

type ScoreboardHandler struct {
	scoreboardService *services.ScoreboardService
	roundService      *services.RoundService
}

func NewScoreboardHandler(scoreboardService *services.ScoreboardService, roundService *services.RoundService) *ScoreboardHandler {
	return &ScoreboardHandler{scoreboardService: scoreboardService, roundService: roundService}
}

// Get serves the ranking for a round. Without an explicit roundId the view
// defaults to the active round, then the most recent one. The viewer flag
// is only set for authenticated requests.
func (h *ScoreboardHandler) Get(c *gin.Context) {
	var viewerID uint
	if id, exists := c.Get("user_id"); exists {
		viewerID = id.(uint)
	}

	var roundID uint
	if raw := c.Query("roundId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
			return
		}
		roundID = uint(parsed)
	} else {
		defaultID, err := h.scoreboardService.DefaultRoundID()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		roundID = defaultID
	}

	rounds, err := h.roundService.FindAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if roundID == 0 {
		c.JSON(http.StatusOK, gin.H{"rounds": rounds, "scoreboard": []services.ScoreboardEntry{}})
		return
	}

	round, err := h.roundService.FindByID(roundID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
		return
	}

	entries, err := h.scoreboardService.GetScoreboard(roundID, viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rounds":         rounds,
		"selected_round": round,
		"scoreboard":     entries,
	})
}
