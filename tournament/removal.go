package tournament

import "github.com/mmorrons/pingpong/models"

// RemoveFromBracket repairs the graph after a player leaves the roster.
// Every match holding the player has that slot emptied and its result wiped —
// winner, scores, game record, and timing all reset — before the shared
// resolution rule derives the new status.
//
// Matches further downstream that already consumed an affected match's winner
// are NOT repaired: the winner they hold is no longer backed by a decided
// match. Their ids are returned in stale so the caller can warn about them.
func RemoveFromBracket(b *Bracket, playerID string) (affected, stale []string) {
	for _, m := range b.matches {
		if !m.References(playerID) {
			continue
		}
		prevWinner := m.Winner
		if m.Player1.Is(playerID) {
			m.Player1 = models.EmptySlot()
		}
		if m.Player2.Is(playerID) {
			m.Player2 = models.EmptySlot()
		}
		resetResult(m)
		resolve(m)
		affected = append(affected, m.ID)

		if prevWinner.IsPlayer() && !prevWinner.Is(playerID) && m.NextMatchID != "" {
			if next := b.Match(m.NextMatchID); next != nil && next.Slot(m.NextSlot).Equal(prevWinner) {
				stale = append(stale, next.ID)
			}
		}
	}
	return affected, stale
}

func resetResult(m *models.Match) {
	m.Score1, m.Score2 = 0, 0
	m.GamesWon1, m.GamesWon2 = 0, 0
	m.GameScores = nil
	m.Winner = models.EmptySlot()
	m.Status = models.StatusPending
	m.StartedAt, m.EndedAt = 0, 0
	m.Duration = 0
}
