package tournament

import (
	"fmt"

	"github.com/mmorrons/pingpong/models"
)

// Propagate writes a decided match's winner into the slot it feeds and
// re-derives that match's status with the shared resolution rule. Propagation
// is transitive: a downstream match that resolves to a bye win (or another
// bye pairing) is pushed forward in turn, so the graph always reaches a fixed
// point in one call.
//
// Writing a winner that is already in place is a no-op, which keeps repeated
// propagation from clobbering a result the downstream match recorded since.
// When the incoming winner differs — a re-scored match changed its outcome —
// the downstream match is re-resolved, clearing the stale winner.
func Propagate(b *Bracket, m *models.Match) error {
	if m.NextMatchID == "" || m.Winner.IsEmpty() {
		return nil
	}
	next := b.Match(m.NextMatchID)
	if next == nil {
		return fmt.Errorf("advancing winner of %s: %w: %s", m.ID, models.ErrMatchNotFound, m.NextMatchID)
	}
	if next.Slot(m.NextSlot).Equal(m.Winner) {
		return nil
	}
	next.SetSlot(m.NextSlot, m.Winner)
	resolve(next)
	if next.Status == models.StatusCompleted || next.Status == models.StatusBye {
		return Propagate(b, next)
	}
	return nil
}
