package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmorrons/pingpong/models"
)

func historyFixture() []models.Match {
	return []models.Match{
		{ID: "M2-1", Round: 2, Order: 1,
			Player1: models.PlayerSlot("a"), Player2: models.PlayerSlot("c"),
			Status: models.StatusCompleted, Winner: models.PlayerSlot("a"), EndedAt: 5000},
		{ID: "M1-1", Round: 1, Order: 1,
			Player1: models.PlayerSlot("a"), Player2: models.PlayerSlot("b"),
			Status: models.StatusCompleted, Winner: models.PlayerSlot("a"), EndedAt: 1000},
		{ID: "M1-2", Round: 1, Order: 2,
			Player1: models.PlayerSlot("c"), Player2: models.ByeSlot(),
			Status: models.StatusCompleted, Winner: models.PlayerSlot("c"), EndedAt: 0},
		{ID: "M1-3", Round: 1, Order: 3,
			Player1: models.ByeSlot(), Player2: models.ByeSlot(),
			Status: models.StatusBye, Winner: models.ByeSlot()},
		{ID: "M1-4", Round: 1, Order: 4,
			Player1: models.PlayerSlot("d"), Player2: models.PlayerSlot("e"),
			Status: models.StatusReady},
	}
}

func TestHistoryOrderAndFiltering(t *testing.T) {
	got := History(historyFixture())
	require.Len(t, got, 3)
	assert.Equal(t, "M1-1", got[0].ID)
	assert.Equal(t, "M1-2", got[1].ID, "bye advancements do appear in the tournament log")
	assert.Equal(t, "M2-1", got[2].ID)
}

func TestPlayerRecordsNewestFirst(t *testing.T) {
	got := PlayerRecords(historyFixture(), "a")
	require.Len(t, got, 2)
	assert.Equal(t, "M2-1", got[0].ID)
	assert.Equal(t, "M1-1", got[1].ID)
}

func TestPlayerRecordsExcludeByes(t *testing.T) {
	// "c" finished two matches but one was a walkover; only the contested
	// one counts toward the record.
	got := PlayerRecords(historyFixture(), "c")
	require.Len(t, got, 1)
	assert.Equal(t, "M2-1", got[0].ID)
}

func TestPlayerRecordsUnknownPlayer(t *testing.T) {
	assert.Empty(t, PlayerRecords(historyFixture(), "nobody"))
}

func TestRecordFor(t *testing.T) {
	matches := []models.Match{
		{ID: "M1-1", Round: 1, Order: 1,
			Player1: models.PlayerSlot("a"), Player2: models.PlayerSlot("b"),
			Status: models.StatusCompleted, Winner: models.PlayerSlot("a"),
			GameScores: []models.GameScore{{11, 9}, {3, 11}, {11, 5}}},
		{ID: "M2-1", Round: 2, Order: 1,
			Player1: models.PlayerSlot("c"), Player2: models.PlayerSlot("a"),
			Status: models.StatusCompleted, Winner: models.PlayerSlot("c"),
			GameScores: []models.GameScore{{11, 4}}},
		{ID: "M1-2", Round: 1, Order: 2,
			Player1: models.PlayerSlot("a"), Player2: models.ByeSlot(),
			Status: models.StatusCompleted, Winner: models.PlayerSlot("a")},
	}

	r := RecordFor(matches, "a")
	assert.Equal(t, 1, r.Wins, "walkovers do not count as wins")
	assert.Equal(t, 1, r.Losses)
	assert.Equal(t, 25+4, r.PointsFor)
	assert.Equal(t, 25+11, r.PointsAgainst)

	assert.Equal(t, Record{}, RecordFor(matches, "nobody"))
}

func TestChampion(t *testing.T) {
	matches := historyFixture()
	b := NewBracket(matches)
	winner, ok := Champion(b)
	require.True(t, ok)
	assert.True(t, winner.Is("a"))
}

func TestChampionUndecided(t *testing.T) {
	b := NewBracket([]models.Match{
		{ID: "M1-1", Round: 1, Order: 1,
			Player1: models.PlayerSlot("a"), Player2: models.PlayerSlot("b"),
			Status: models.StatusReady},
	})
	_, ok := Champion(b)
	assert.False(t, ok)

	_, ok = Champion(NewBracket(nil))
	assert.False(t, ok)
}
