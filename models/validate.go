package models

import "fmt"

// Shape checks applied at the deserialization boundary. A record that fails
// here never reaches the engine; the store discards the containing bucket and
// reinitializes.

func (s Slot) validate() error {
	switch s.Kind {
	case SlotEmpty, SlotBye, SlotPlayer, "":
	default:
		return fmt.Errorf("unknown slot kind %q", s.Kind)
	}
	if s.Kind == SlotPlayer && s.PlayerID == "" {
		return fmt.Errorf("player slot without a player id")
	}
	return nil
}

// Validate checks the basic shape of a persisted player record.
func (p *Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player without an id")
	}
	if p.Name == "" {
		return fmt.Errorf("player %s without a name", p.ID)
	}
	return nil
}

// Validate checks the basic shape of a persisted match record.
func (m *Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match without an id")
	}
	if m.Round < 1 || m.Order < 1 {
		return fmt.Errorf("match %s has invalid position %d/%d", m.ID, m.Round, m.Order)
	}
	if !m.Status.Valid() {
		return fmt.Errorf("match %s has unknown status %q", m.ID, m.Status)
	}
	if err := m.Player1.validate(); err != nil {
		return fmt.Errorf("match %s slot p1: %w", m.ID, err)
	}
	if err := m.Player2.validate(); err != nil {
		return fmt.Errorf("match %s slot p2: %w", m.ID, err)
	}
	if err := m.Winner.validate(); err != nil {
		return fmt.Errorf("match %s winner: %w", m.ID, err)
	}
	switch m.Status {
	case StatusCompleted:
		if m.Winner.IsEmpty() {
			return fmt.Errorf("match %s is completed but has no winner", m.ID)
		}
	case StatusBye:
		if !m.Winner.IsBye() {
			return fmt.Errorf("match %s is a bye but its winner is %v", m.ID, m.Winner)
		}
	default:
		if !m.Winner.IsEmpty() {
			return fmt.Errorf("match %s is %s but already has winner %v", m.ID, m.Status, m.Winner)
		}
	}
	return nil
}

// Validate checks that settings describe a playable tournament.
func (s Settings) Validate() error {
	if !PowerOfTwo(s.BracketSize) {
		return fmt.Errorf("%w: size %d is not a power of two", ErrInvalidBracketSize, s.BracketSize)
	}
	if !s.GameFormat.Valid() {
		return fmt.Errorf("unknown game format %q", s.GameFormat)
	}
	if s.TargetScore < 1 {
		return fmt.Errorf("target score must be positive, got %d", s.TargetScore)
	}
	return nil
}
