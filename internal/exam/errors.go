package exam

import "errors"

// Domain errors for the exam engine. Check with errors.Is.
var (
	ErrSessionNotFound       = errors.New("exam: session not found")
	ErrSessionCompleted      = errors.New("exam: session already completed")
	ErrQuestionNotInSession  = errors.New("exam: question not in session")
	ErrInsufficientQuestions = errors.New("exam: not enough verified questions")
	ErrInvalidAnswer         = errors.New("exam: invalid answer")
)
