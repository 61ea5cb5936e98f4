package game

import "errors"

var (
	// ErrInvalidTempo is returned when the effective tempo at a time is not positive.
	ErrInvalidTempo = errors.New("invalid tempo")

	// ErrInvalidNote is returned when a note has a negative lane, time or
	// duration, or a lane outside of the configured lane count.
	ErrInvalidNote = errors.New("invalid note")

	// ErrLaneAlreadyPending is returned when a long note is started, or a
	// normal note placed, on a lane that already has a long note in progress.
	ErrLaneAlreadyPending = errors.New("lane already has a pending long note")

	// ErrLaneNotPending is returned when a long note is ended on an idle lane.
	ErrLaneNotPending = errors.New("lane has no pending long note")

	ErrInvalidLaneCount = errors.New("invalid lane count")
	ErrUnknownMode      = errors.New("unknown judgement mode")
)
