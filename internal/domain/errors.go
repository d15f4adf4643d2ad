package domain

import "errors"

var (
	// ErrMissingIdentity is returned when a join request carries no user id.
	ErrMissingIdentity = errors.New("join requires a user id")
	// ErrDuplicateJoin means the connection is already registered; callers treat it as a reconnect.
	ErrDuplicateJoin = errors.New("connection already joined")
	// ErrGameInProgress rejects joins while a tournament is running or settling.
	ErrGameInProgress = errors.New("game in progress or just ended")
	// ErrUnknownPlayer is returned for actions from connections that never joined.
	ErrUnknownPlayer = errors.New("player not registered")
	// ErrInvalidQuestion marks question data missing a required field; fatal to the run.
	ErrInvalidQuestion = errors.New("invalid question data")
	// ErrNoActiveQuestion rejects answers outside an open answer window.
	ErrNoActiveQuestion = errors.New("no active question")
	// ErrStaleAnswer rejects answers whose question index no longer matches the active one.
	ErrStaleAnswer = errors.New("answer for a stale question")
	// ErrDuplicateAnswer rejects a second submission for the same question.
	ErrDuplicateAnswer = errors.New("question already answered")
	// ErrLateAnswer rejects submissions past the question deadline.
	ErrLateAnswer = errors.New("answer past the deadline")
)
