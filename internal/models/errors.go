package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")

	ErrConfiguration  = errors.New("configuration error")
	ErrService        = errors.New("ai service error")
	ErrAcquisition    = errors.New("video acquisition failed")
	ErrMedia          = errors.New("media processing failed")
	ErrTranscription  = errors.New("transcription failed")
	ErrQuizGeneration = errors.New("quiz generation failed")
)

// QuizGenerationError is returned when the AI never produced a parseable quiz.
// Raw holds the last response received, for diagnosis.
type QuizGenerationError struct {
	Raw string
	Err error
}

func (e *QuizGenerationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrQuizGeneration, e.Err)
}

func (e *QuizGenerationError) Unwrap() error { return e.Err }

func (e *QuizGenerationError) Is(target error) bool { return target == ErrQuizGeneration }
