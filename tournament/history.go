package tournament

import (
	"sort"

	"github.com/mmorrons/pingpong/models"
)

// History returns every completed match except bye-against-bye pairings,
// ordered by round then bracket position.
func History(matches []models.Match) []models.Match {
	var out []models.Match
	for _, m := range matches {
		if m.Status != models.StatusCompleted || m.IsByePairing() {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].Order < out[j].Order
	})
	return out
}

// PlayerRecords returns the matches a player actually contested and finished,
// newest first. Bye advancements are not records.
func PlayerRecords(matches []models.Match, playerID string) []models.Match {
	var out []models.Match
	for _, m := range matches {
		if m.Status != models.StatusCompleted || m.HasBye() {
			continue
		}
		if !m.References(playerID) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EndedAt > out[j].EndedAt
	})
	return out
}

// Record aggregates a player's contested results for the registry card.
type Record struct {
	Wins          int
	Losses        int
	PointsFor     int
	PointsAgainst int
}

// RecordFor tallies wins, losses, and point totals over the matches
// PlayerRecords would return for the player.
func RecordFor(matches []models.Match, playerID string) Record {
	var r Record
	for _, m := range PlayerRecords(matches, playerID) {
		if m.Winner.Is(playerID) {
			r.Wins++
		} else {
			r.Losses++
		}
		p1, p2 := m.GamePoints()
		if m.Player1.Is(playerID) {
			r.PointsFor += p1
			r.PointsAgainst += p2
		} else {
			r.PointsFor += p2
			r.PointsAgainst += p1
		}
	}
	return r
}

// Champion returns the winner of the final once it is decided. A final that
// somehow resolved to the bye sentinel crowns nobody.
func Champion(b *Bracket) (models.Slot, bool) {
	final := b.Final()
	if final == nil || final.Status != models.StatusCompleted || !final.Winner.IsPlayer() {
		return models.EmptySlot(), false
	}
	return final.Winner, true
}
