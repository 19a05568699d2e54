package tournament

import (
	"fmt"

	"github.com/mmorrons/pingpong/models"
)

// State is the scoring machine's position in a match's lifecycle.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	// StateGameWon blocks scoring until the game win is acknowledged; only
	// best-of formats pass through it.
	StateGameWon
	StateMatchWon
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateInProgress:
		return "in progress"
	case StateGameWon:
		return "game won"
	case StateMatchWon:
		return "match won"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// EventKind discriminates scoring events.
type EventKind int

const (
	// EventPoint adjusts one side's live score by Delta.
	EventPoint EventKind = iota
	// EventNextGame acknowledges a game win and starts the following game.
	EventNextGame
	// EventFinish confirms the match win and asks for the final record.
	EventFinish
)

// Event is one discrete scoring action, as produced by the scoring UI.
type Event struct {
	Kind  EventKind
	Slot  models.SlotID
	Delta int
}

// Point is a scored point for the given side.
func Point(slot models.SlotID) Event { return Event{Kind: EventPoint, Slot: slot, Delta: 1} }

// Undo takes a point back from the given side.
func Undo(slot models.SlotID) Event { return Event{Kind: EventPoint, Slot: slot, Delta: -1} }

// NextGame acknowledges a game win.
func NextGame() Event { return Event{Kind: EventNextGame} }

// Finish confirms the match win.
func Finish() Event { return Event{Kind: EventFinish} }

// CheckWin reports which side has won a game at the given score: the winner
// must reach the target and lead by at least two clear points. Holds for
// arbitrarily high scores; there is no cap.
func CheckWin(s1, s2, target int) (models.SlotID, bool) {
	switch {
	case s1 >= target && s1 >= s2+2:
		return models.SlotP1, true
	case s2 >= target && s2 >= s1+2:
		return models.SlotP2, true
	}
	return "", false
}

// Scorer drives a single match from empty scores to a committed result. It
// works on the match in memory; nothing is persisted until the caller saves
// the committed record.
type Scorer struct {
	match  *models.Match
	format models.GameFormat
	target int

	score1, score2       int
	gamesWon1, gamesWon2 int
	gameScores           []models.GameScore

	state     State
	startedAt int64
}

// NewScorer opens a match for scoring under the given settings. Pending and
// bye matches refuse to open. A completed match re-opens for editing: the
// stored games and the last game's score become the resume point, and a fresh
// win must be detected before the match can be committed again.
func NewScorer(m *models.Match, settings models.Settings, startedAt int64) (*Scorer, error) {
	switch m.Status {
	case models.StatusPending, models.StatusBye:
		return nil, fmt.Errorf("match %s is %s: %w", m.ID, m.Status, models.ErrMatchNotPlayable)
	}
	s := &Scorer{
		match:     m,
		format:    settings.GameFormat,
		target:    settings.TargetScore,
		state:     StateNotStarted,
		startedAt: startedAt,
	}
	if m.Status == models.StatusCompleted {
		s.score1, s.score2 = m.Score1, m.Score2
		s.gamesWon1, s.gamesWon2 = m.GamesWon1, m.GamesWon2
		s.gameScores = append([]models.GameScore(nil), m.GameScores...)
		s.state = StateInProgress
		// Editing does not restart the clock.
		s.startedAt = m.StartedAt
	}
	return s, nil
}

// State returns the machine's current state.
func (s *Scorer) State() State { return s.state }

// Scores returns the live point scores of the current game.
func (s *Scorer) Scores() (int, int) { return s.score1, s.score2 }

// GamesWon returns how many games each side has taken.
func (s *Scorer) GamesWon() (int, int) { return s.gamesWon1, s.gamesWon2 }

// GameScores returns the per-game record so far.
func (s *Scorer) GameScores() []models.GameScore {
	return append([]models.GameScore(nil), s.gameScores...)
}

// Increment adjusts one side's live score. Decrements clamp at zero.
// Ignored entirely while a game or match win is awaiting acknowledgment, so a
// stray tap during the transition cannot double-count a point.
func (s *Scorer) Increment(slot models.SlotID, delta int) {
	if s.state == StateGameWon || s.state == StateMatchWon {
		return
	}
	if s.state == StateNotStarted {
		s.state = StateInProgress
	}
	switch slot {
	case models.SlotP1:
		s.score1 += delta
		if s.score1 < 0 {
			s.score1 = 0
		}
	case models.SlotP2:
		s.score2 += delta
		if s.score2 < 0 {
			s.score2 = 0
		}
	}
	s.checkGameEnd()
}

func (s *Scorer) checkGameEnd() {
	winner, ok := CheckWin(s.score1, s.score2, s.target)
	if !ok {
		return
	}
	s.gameScores = append(s.gameScores, models.GameScore{s.score1, s.score2})

	needed := s.format.GamesToWin()
	if needed <= 1 {
		s.state = StateMatchWon
		return
	}
	if winner == models.SlotP1 {
		s.gamesWon1++
	} else {
		s.gamesWon2++
	}
	if s.gamesWon1 >= needed || s.gamesWon2 >= needed {
		s.state = StateMatchWon
	} else {
		s.state = StateGameWon
	}
}

// NextGame acknowledges a game win and resets the live scores for the
// following game. A no-op in any other state.
func (s *Scorer) NextGame() {
	if s.state != StateGameWon {
		return
	}
	s.score1, s.score2 = 0, 0
	s.state = StateInProgress
}

// Commit finalizes the match: it stamps the result, the format and target the
// match was played under, and the timing fields onto the match record and
// marks it completed. Fails with ErrNotYetWon outside StateMatchWon.
func (s *Scorer) Commit(endedAt int64) (*models.Match, error) {
	if s.state != StateMatchWon {
		return nil, fmt.Errorf("match %s: %w", s.match.ID, models.ErrNotYetWon)
	}

	var winner models.Slot
	needed := s.format.GamesToWin()
	if needed > 1 {
		if s.gamesWon1 >= needed {
			winner = s.match.Player1
		} else {
			winner = s.match.Player2
		}
		// Make sure the deciding game made it into the record.
		last := len(s.gameScores) - 1
		if last < 0 || s.gameScores[last] != (models.GameScore{s.score1, s.score2}) {
			if _, ok := CheckWin(s.score1, s.score2, s.target); ok {
				s.gameScores = append(s.gameScores, models.GameScore{s.score1, s.score2})
			}
		}
	} else {
		side, _ := CheckWin(s.score1, s.score2, s.target)
		if side == models.SlotP1 {
			winner = s.match.Player1
		} else {
			winner = s.match.Player2
		}
		// A single-game record is exactly the one game that was played.
		if len(s.gameScores) == 0 || s.gameScores[0] != (models.GameScore{s.score1, s.score2}) {
			s.gameScores = []models.GameScore{{s.score1, s.score2}}
		}
	}

	m := s.match
	m.Score1, m.Score2 = s.score1, s.score2
	m.GamesWon1, m.GamesWon2 = s.gamesWon1, s.gamesWon2
	m.GameScores = append([]models.GameScore(nil), s.gameScores...)
	m.Winner = winner
	m.Status = models.StatusCompleted
	m.Format = s.format
	m.TargetScore = s.target
	m.StartedAt = s.startedAt
	m.EndedAt = endedAt
	if s.startedAt > 0 && endedAt > s.startedAt {
		m.Duration = int((endedAt - s.startedAt + 500) / 1000)
	} else {
		m.Duration = 0
	}
	return m, nil
}
