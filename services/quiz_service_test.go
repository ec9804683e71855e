package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateScore(t *testing.T) {
	svc := NewQuizService(newTestDB(t), testConfig(), nopLogger())
	shownAt := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		correct bool
		want    int
	}{
		{"incorrect scores zero regardless of speed", time.Second, false, 0},
		{"instant answer earns max score", 0, true, 100},
		{"answer at timer earns min score", 10 * time.Second, true, 50},
		{"answer after timer is clamped to min score", 25 * time.Second, true, 50},
		{"clock skew before shown earns max score", -2 * time.Second, true, 100},
		{"two seconds in", 2 * time.Second, true, 90},
		{"halfway through", 5 * time.Second, true, 75},
		{"fractional seconds truncate toward zero", 2500 * time.Millisecond, true, 87},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.CalculateScore(shownAt, shownAt.Add(tt.elapsed), tt.correct)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStartOrResumeRepeatsCurrentQuestion(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, testConfig(), nopLogger())
	user := seedUser(t, db, "ada@example.com")
	round := seedRound(t, db, 3)

	first, err := svc.StartOrResume(user, round.ID)
	require.NoError(t, err)
	require.NotNil(t, first.CurrentQuestion)
	assert.Equal(t, 0, first.CurrentQuestionIndex)
	assert.Equal(t, 3, first.TotalQuestions)
	assert.Equal(t, 10, first.TimerSeconds)
	assert.False(t, first.IsCompleted)
	assert.Len(t, first.CurrentQuestion.Options, 4)

	// Reloading without submitting must not advance the quiz.
	second, err := svc.StartOrResume(user, round.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Session.ID, second.Session.ID)
	assert.Equal(t, 0, second.CurrentQuestionIndex)
	assert.Equal(t, first.CurrentQuestion.ID, second.CurrentQuestion.ID)
}

func TestStartOrResumeUnknownRound(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, testConfig(), nopLogger())
	user := seedUser(t, db, "ada@example.com")

	_, err := svc.StartOrResume(user, 999)
	assert.ErrorIs(t, err, ErrRoundNotFound)
}

func TestQuestionViewHidesCorrectFlag(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, testConfig(), nopLogger())
	user := seedUser(t, db, "ada@example.com")
	round := seedRound(t, db, 1)

	state, err := svc.StartOrResume(user, round.ID)
	require.NoError(t, err)

	correctID := correctOptionID(t, db, state.CurrentQuestion.ID)
	found := false
	for _, opt := range state.CurrentQuestion.Options {
		if opt.ID == correctID {
			found = true
		}
	}
	// The correct option is served like any other; only its ID identifies it
	// server-side.
	assert.True(t, found)
}

func TestPlayThroughScoresAndCompletes(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, testConfig(), nopLogger())
	user := seedUser(t, db, "ada@example.com")
	round := seedRound(t, db, 2)

	clock := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	state, err := svc.StartOrResume(user, round.ID)
	require.NoError(t, err)
	q1 := state.CurrentQuestion.ID
	shownAt := clock

	// Correct answer two seconds in scores 90.
	clock = clock.Add(2 * time.Second)
	answerID := correctOptionID(t, db, q1)
	result, err := svc.SubmitAnswer(user, state.Session.ID, q1, &answerID, shownAt)
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, 90, result.Score)
	assert.True(t, result.HasNextQuestion)
	assert.Equal(t, answerID, result.CorrectOption.ID)

	state, err = svc.StartOrResume(user, round.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentQuestionIndex)
	q2 := state.CurrentQuestion.ID
	require.NotEqual(t, q1, q2)
	shownAt = clock

	// Correct answer at the full timer scores the minimum.
	clock = clock.Add(10 * time.Second)
	answerID = correctOptionID(t, db, q2)
	result, err = svc.SubmitAnswer(user, state.Session.ID, q2, &answerID, shownAt)
	require.NoError(t, err)
	assert.Equal(t, 50, result.Score)
	assert.False(t, result.HasNextQuestion)

	session, err := svc.GetSession(state.Session.ID)
	require.NoError(t, err)
	assert.True(t, session.IsCompleted())
	assert.Equal(t, 140, session.TotalScore)
	assert.Nil(t, session.CurrentQuestionShownAt)

	assert.False(t, svc.CanPlay(user.ID, round.ID))
	assert.True(t, svc.HasCompleted(user.ID, round.ID))

	// A completed session resumes into a terminal state.
	state, err = svc.StartOrResume(user, round.ID)
	require.NoError(t, err)
	assert.True(t, state.IsCompleted)
	assert.Nil(t, state.CurrentQuestion)
}

func TestSubmitAnswerRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, testConfig(), nopLogger())
	user := seedUser(t, db, "ada@example.com")
	round := seedRound(t, db, 2)

	clock := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	state, err := svc.StartOrResume(user, round.ID)
	require.NoError(t, err)
	questionID := state.CurrentQuestion.ID
	answerID := correctOptionID(t, db, questionID)

	_, err = svc.SubmitAnswer(user, state.Session.ID, questionID, &answerID, state.QuestionShownAt)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(user, state.Session.ID, questionID, &answerID, state.QuestionShownAt)
	assert.ErrorIs(t, err, ErrAlreadyAnswered)

	session, err := svc.GetSession(state.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, session.TotalScore)
}

func TestSubmitAnswerEnforcesPlayOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, testConfig(), nopLogger())
	user := seedUser(t, db, "ada@example.com")
	round := seedRound(t, db, 2)

	state, err := svc.StartOrResume(user, round.ID)
	require.NoError(t, err)

	questions, err := svc.loadQuestions(db, round.ID, user.Language)
	require.NoError(t, err)
	secondQuestion := questions[1].ID
	answerID := correctOptionID(t, db, secondQuestion)

	_, err = svc.SubmitAnswer(user, state.Session.ID, secondQuestion, &answerID, state.QuestionShownAt)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestSubmitAnswerOwnershipAndCompletion(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, testConfig(), nopLogger())
	owner := seedUser(t, db, "ada@example.com")
	intruder := seedUser(t, db, "mallory@example.com")
	round := seedRound(t, db, 1)

	state, err := svc.StartOrResume(owner, round.ID)
	require.NoError(t, err)
	questionID := state.CurrentQuestion.ID
	answerID := correctOptionID(t, db, questionID)

	_, err = svc.SubmitAnswer(intruder, state.Session.ID, questionID, &answerID, state.QuestionShownAt)
	assert.ErrorIs(t, err, ErrNotSessionOwner)

	_, err = svc.SubmitAnswer(owner, state.Session.ID, questionID, &answerID, state.QuestionShownAt)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(owner, state.Session.ID, questionID, &answerID, state.QuestionShownAt)
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

func TestSubmitWithoutSelectionScoresZero(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, testConfig(), nopLogger())
	user := seedUser(t, db, "ada@example.com")
	round := seedRound(t, db, 2)

	state, err := svc.StartOrResume(user, round.ID)
	require.NoError(t, err)
	questionID := state.CurrentQuestion.ID

	// Timeout without a selection still consumes the question.
	result, err := svc.SubmitAnswer(user, state.Session.ID, questionID, nil, state.QuestionShownAt)
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, 0, result.Score)
	assert.True(t, result.HasNextQuestion)

	state, err = svc.StartOrResume(user, round.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentQuestionIndex)
}

func TestSubmitWrongAnswerScoresZero(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, testConfig(), nopLogger())
	user := seedUser(t, db, "ada@example.com")
	round := seedRound(t, db, 1)

	state, err := svc.StartOrResume(user, round.ID)
	require.NoError(t, err)
	questionID := state.CurrentQuestion.ID
	answerID := wrongOptionID(t, db, questionID)

	result, err := svc.SubmitAnswer(user, state.Session.ID, questionID, &answerID, state.QuestionShownAt)
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, 0, result.Score)
	assert.NotEqual(t, answerID, result.CorrectOption.ID)
}

func TestSubmitWithLostTimingAssumesFullTimer(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, testConfig(), nopLogger())
	user := seedUser(t, db, "ada@example.com")
	round := seedRound(t, db, 1)

	state, err := svc.StartOrResume(user, round.ID)
	require.NoError(t, err)
	questionID := state.CurrentQuestion.ID
	answerID := correctOptionID(t, db, questionID)

	result, err := svc.SubmitAnswer(user, state.Session.ID, questionID, &answerID, time.Time{})
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, 50, result.Score)
}

func TestCanPlayRequiresActiveRound(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, testConfig(), nopLogger())
	user := seedUser(t, db, "ada@example.com")
	round := seedRound(t, db, 1)

	assert.True(t, svc.CanPlay(user.ID, round.ID))

	require.NoError(t, db.Model(round).Update("active", false).Error)
	assert.False(t, svc.CanPlay(user.ID, round.ID))

	_, err := svc.StartOrResume(user, round.ID)
	assert.ErrorIs(t, err, ErrRoundNotActive)

	assert.False(t, svc.CanPlay(user.ID, 999))
}

func TestPlayerHistoryOrdersRecentFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, testConfig(), nopLogger())
	user := seedUser(t, db, "ada@example.com")
	first := seedRound(t, db, 1)
	second := seedRound(t, db, 1)

	clock := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	_, err := svc.StartOrResume(user, first.ID)
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	_, err = svc.StartOrResume(user, second.ID)
	require.NoError(t, err)

	sessions, err := svc.PlayerHistory(user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID, sessions[0].RoundID)
	assert.Equal(t, first.ID, sessions[1].RoundID)
}

func TestGetSessionWithAnswersOrdersByPlayOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, testConfig(), nopLogger())
	user := seedUser(t, db, "ada@example.com")
	round := seedRound(t, db, 3)

	state, err := svc.StartOrResume(user, round.ID)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		questionID := state.CurrentQuestion.ID
		answerID := correctOptionID(t, db, questionID)
		_, err = svc.SubmitAnswer(user, state.Session.ID, questionID, &answerID, state.QuestionShownAt)
		require.NoError(t, err)
		state, err = svc.StartOrResume(user, round.ID)
		require.NoError(t, err)
	}

	session, err := svc.GetSessionWithAnswers(state.Session.ID)
	require.NoError(t, err)
	require.Len(t, session.Answers, 3)
	for i, answer := range session.Answers {
		assert.Equal(t, i, answer.Question.OrderIndex)
		assert.True(t, answer.IsCorrect())
	}
}
