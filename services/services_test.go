package services

import (
	"fmt"
	"testing"
	"time"

	"pubquiz/config"
	"pubquiz/models"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens an in-memory database with the full schema. The single
// connection keeps every gorm session on the same in-memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.MagicToken{},
		&models.Round{},
		&models.Question{},
		&models.AnswerOption{},
		&models.PlayerSession{},
		&models.PlayerAnswer{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		UploadDir:          "",
		BaseURL:            "http://localhost:8080",
		MagicLinkExpiryMin: 15,
		TimerSeconds:       10,
		MaxScore:           100,
		MinScore:           50,
	}
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:       email,
		DisplayName: email,
		Role:        models.RolePlayer,
		Language:    models.LanguageDE,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedRound creates an active round with the given number of questions, each
// carrying four options with option 1 correct.
func seedRound(t *testing.T, db *gorm.DB, questionCount int) *models.Round {
	t.Helper()

	round := &models.Round{
		Name:      "Test Round",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		Active:    true,
	}
	require.NoError(t, db.Create(round).Error)

	for i := 0; i < questionCount; i++ {
		question := models.Question{
			RoundID:    round.ID,
			OrderIndex: i,
			Language:   models.LanguageDE,
			Text:       strPtr(fmt.Sprintf("Question %d", i+1)),
		}
		for j := 0; j < 4; j++ {
			question.Options = append(question.Options, models.AnswerOption{
				OrderIndex: j,
				Text:       strPtr(fmt.Sprintf("Option %d", j+1)),
				Correct:    j == 0,
			})
		}
		require.NoError(t, db.Create(&question).Error)
	}
	return round
}

func correctOptionID(t *testing.T, db *gorm.DB, questionID uint) uint {
	t.Helper()
	var option models.AnswerOption
	require.NoError(t, db.Where("question_id = ? AND correct = ?", questionID, true).First(&option).Error)
	return option.ID
}

func wrongOptionID(t *testing.T, db *gorm.DB, questionID uint) uint {
	t.Helper()
	var option models.AnswerOption
	require.NoError(t, db.Where("question_id = ? AND correct = ?", questionID, false).First(&option).Error)
	return option.ID
}

func strPtr(s string) *string {
	return &s
}
