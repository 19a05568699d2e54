package models

import "errors"

// Errors shared across the engine. Callers discriminate with errors.Is; call
// sites add context with fmt.Errorf("...: %w", err).
var (
	// Bracket generation
	ErrInvalidBracketSize = errors.New("bracket size must be a power of two and fit all players")
	ErrBracketExists      = errors.New("a bracket already exists; regenerating discards its progress")

	// Scoring
	ErrMatchNotPlayable = errors.New("match is not in a playable state")
	ErrNotYetWon        = errors.New("match has no winner yet")

	// Lookups
	ErrMatchNotFound  = errors.New("match not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrNoCurrentMatch = errors.New("no match is currently being scored")

	// Registry
	ErrPlayerNameRequired  = errors.New("player name is required")
	ErrDuplicatePlayerName = errors.New("a player with that name already exists")
)
