// Package tournament implements the single-elimination bracket engine: graph
// construction, per-match scoring, winner propagation, and roster repair.
package tournament

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/mmorrons/pingpong/models"
)

// MatchID encodes a match's bracket position.
func MatchID(round, order int) string {
	return fmt.Sprintf("M%d-%d", round, order)
}

// Bracket indexes a flat match list by id for graph walks. It owns its copy
// of the matches; call Matches to get the mutated graph back.
type Bracket struct {
	matches []*models.Match
	byID    map[string]*models.Match
}

// NewBracket wraps a match list. The input slice is copied.
func NewBracket(matches []models.Match) *Bracket {
	b := &Bracket{byID: make(map[string]*models.Match, len(matches))}
	for i := range matches {
		m := matches[i]
		b.matches = append(b.matches, &m)
		b.byID[m.ID] = b.matches[len(b.matches)-1]
	}
	return b
}

// Match returns the match with the given id, or nil.
func (b *Bracket) Match(id string) *models.Match {
	return b.byID[id]
}

// Matches returns a snapshot of the graph sorted by round then position.
func (b *Bracket) Matches() []models.Match {
	out := make([]models.Match, 0, len(b.matches))
	for _, m := range b.matches {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].Order < out[j].Order
	})
	return out
}

// Final returns the last-round match, or nil for an empty bracket.
func (b *Bracket) Final() *models.Match {
	var final *models.Match
	for _, m := range b.matches {
		if final == nil || m.Round > final.Round {
			final = m
		}
	}
	return final
}

// Build creates the complete match graph for a tournament run: every round,
// every match, with round-one pairings drawn uniformly at random. Players are
// shuffled, padded with byes up to the bracket size, and shuffled again, so
// bye placement is random across all slots rather than stuck next to the late
// seeds. Round-one byes resolve immediately and their winners are pushed
// forward through the regular propagation path; deeper rounds stay pending
// until play reaches them.
func Build(players []models.Player, settings models.Settings) ([]models.Match, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if len(players) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 players, have %d", models.ErrInvalidBracketSize, len(players))
	}
	if len(players) > settings.BracketSize {
		return nil, fmt.Errorf("%w: %d players do not fit a bracket of %d",
			models.ErrInvalidBracketSize, len(players), settings.BracketSize)
	}

	size := settings.BracketSize
	entrants := make([]models.Slot, 0, size)
	for _, p := range players {
		entrants = append(entrants, models.PlayerSlot(p.ID))
	}
	shuffleSlots(entrants)
	for len(entrants) < size {
		entrants = append(entrants, models.ByeSlot())
	}
	shuffleSlots(entrants)

	matches := make([]models.Match, 0, size-1)
	for i := 0; i < size/2; i++ {
		m := models.Match{
			ID:          MatchID(1, i+1),
			Round:       1,
			Order:       i + 1,
			Player1:     entrants[2*i],
			Player2:     entrants[2*i+1],
			Format:      settings.GameFormat,
			TargetScore: settings.TargetScore,
		}
		resolve(&m)
		matches = append(matches, m)
	}

	rounds := settings.Rounds()
	for r, count := 2, size/4; r <= rounds; r, count = r+1, count/2 {
		for i := 0; i < count; i++ {
			matches = append(matches, models.Match{
				ID:          MatchID(r, i+1),
				Round:       r,
				Order:       i + 1,
				Player1:     models.EmptySlot(),
				Player2:     models.EmptySlot(),
				Status:      models.StatusPending,
				Format:      settings.GameFormat,
				TargetScore: settings.TargetScore,
			})
		}
	}

	// Pair i and i+1 of each round feed slot p1 and p2 of parent i/2.
	for i := range matches {
		m := &matches[i]
		if m.Round == rounds {
			continue
		}
		m.NextMatchID = MatchID(m.Round+1, (m.Order-1)/2+1)
		if (m.Order-1)%2 == 0 {
			m.NextSlot = models.SlotP1
		} else {
			m.NextSlot = models.SlotP2
		}
	}

	b := NewBracket(matches)
	for _, m := range b.matches {
		if m.Round != 1 {
			continue
		}
		if m.Status == models.StatusCompleted || m.Status == models.StatusBye {
			if err := Propagate(b, m); err != nil {
				return nil, err
			}
		}
	}
	return b.Matches(), nil
}

// resolve derives a match's status and winner from its two slots. This is the
// single resolution rule used by the builder, the propagation engine, and
// removal repair.
func resolve(m *models.Match) {
	p1, p2 := m.Player1, m.Player2
	switch {
	case p1.IsBye() && p2.IsBye():
		m.Status = models.StatusBye
		m.Winner = models.ByeSlot()
	case p1.IsBye() && p2.IsPlayer():
		m.Status = models.StatusCompleted
		m.Winner = p2
	case p2.IsBye() && p1.IsPlayer():
		m.Status = models.StatusCompleted
		m.Winner = p1
	case p1.IsPlayer() && p2.IsPlayer():
		m.Status = models.StatusReady
		m.Winner = models.EmptySlot()
	default:
		m.Status = models.StatusPending
		m.Winner = models.EmptySlot()
	}
}

func shuffleSlots(slots []models.Slot) {
	places := rand.Perm(len(slots))
	tmp := make([]models.Slot, len(slots))
	copy(tmp, slots)
	for i, place := range places {
		slots[i] = tmp[place]
	}
}
