package services

import "errors"

var (
	// ErrRoundNotFound indicates the requested round does not exist.
	ErrRoundNotFound = errors.New("round not found")
	// ErrRoundNotActive is returned when play is attempted on an inactive round.
	ErrRoundNotActive = errors.New("round is not active")
	// ErrSessionNotFound indicates the player session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionCompleted is returned when a completed session is played again.
	ErrSessionCompleted = errors.New("session already completed")
	// ErrNotSessionOwner is returned when a session belongs to another user.
	ErrNotSessionOwner = errors.New("session does not belong to user")
	// ErrQuestionNotFound indicates a submitted question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAlreadyAnswered guards against duplicate submissions for a question.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when creating a user with an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidToken covers unknown, used and expired magic tokens alike.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrInvalidDateRange is returned when a round ends before it starts.
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)
