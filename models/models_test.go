package models

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotKinds(t *testing.T) {
	empty := EmptySlot()
	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.IsBye())
	assert.False(t, empty.IsPlayer())

	var zero Slot
	assert.True(t, zero.IsEmpty(), "zero value must read as empty")
	assert.True(t, zero.Equal(empty))

	bye := ByeSlot()
	assert.True(t, bye.IsBye())
	assert.False(t, bye.IsEmpty())

	p := PlayerSlot("abc")
	assert.True(t, p.IsPlayer())
	assert.True(t, p.Is("abc"))
	assert.False(t, p.Is("xyz"))
	assert.False(t, bye.Is("abc"))

	assert.True(t, p.Equal(PlayerSlot("abc")))
	assert.False(t, p.Equal(PlayerSlot("xyz")))
	assert.False(t, p.Equal(bye))
}

func TestSlotString(t *testing.T) {
	assert.Equal(t, "BYE", ByeSlot().String())
	assert.Equal(t, "abc", PlayerSlot("abc").String())
	assert.Equal(t, "empty", EmptySlot().String())
}

func TestGameFormat(t *testing.T) {
	assert.Equal(t, 1, FormatSingle.GamesToWin())
	assert.Equal(t, 2, FormatBestOfThree.GamesToWin())
	assert.Equal(t, 3, FormatBestOfFive.GamesToWin())
	assert.True(t, FormatBestOfThree.Valid())
	assert.False(t, GameFormat("bestOf7").Valid())
}

func TestMatchStatusValid(t *testing.T) {
	for _, s := range []MatchStatus{StatusPending, StatusReady, StatusBye, StatusCompleted} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, MatchStatus("running").Valid())
	assert.False(t, MatchStatus("").Valid())
}

func TestNewPlayer(t *testing.T) {
	p := NewPlayer("  Alice  ")
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Alice", p.Name)
	assert.Regexp(t, regexp.MustCompile(`^hsl\(\d+, \d+%, \d+%\)$`), p.Color)

	q := NewPlayer("Bob")
	assert.NotEqual(t, p.ID, q.ID)
}

func TestMatchSlotAccess(t *testing.T) {
	m := Match{Player1: PlayerSlot("a"), Player2: PlayerSlot("b")}
	assert.True(t, m.Slot(SlotP1).Is("a"))
	assert.True(t, m.Slot(SlotP2).Is("b"))

	m.SetSlot(SlotP2, ByeSlot())
	assert.True(t, m.Player2.IsBye())
	assert.True(t, m.HasBye())
	assert.False(t, m.IsByePairing())
	assert.True(t, m.References("a"))
	assert.False(t, m.References("b"))
}

func TestMatchGamePoints(t *testing.T) {
	m := Match{GameScores: []GameScore{{11, 9}, {3, 11}, {11, 5}}}
	p1, p2 := m.GamePoints()
	assert.Equal(t, 25, p1)
	assert.Equal(t, 25, p2)
}

func TestSettingsRounds(t *testing.T) {
	cases := map[int]int{2: 1, 4: 2, 8: 3, 16: 4, 32: 5}
	for size, rounds := range cases {
		s := Settings{BracketSize: size}
		assert.Equal(t, rounds, s.Rounds(), "size %d", size)
	}
	assert.Zero(t, Settings{}.Rounds())
}

func TestPowerOfTwo(t *testing.T) {
	for _, n := range []int{2, 4, 8, 16, 64} {
		assert.True(t, PowerOfTwo(n), "%d", n)
	}
	for _, n := range []int{0, 1, 3, 6, 12, -4} {
		assert.False(t, PowerOfTwo(n), "%d", n)
	}
}

func TestSettingsValidate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())

	bad := []Settings{
		{BracketSize: 6, GameFormat: FormatSingle, TargetScore: 11},
		{BracketSize: 8, GameFormat: "bestOf7", TargetScore: 11},
		{BracketSize: 8, GameFormat: FormatSingle, TargetScore: 0},
	}
	for i, s := range bad {
		assert.Error(t, s.Validate(), "case %d", i)
	}
}

func TestPlayerValidate(t *testing.T) {
	p := Player{ID: "x", Name: "Alice"}
	require.NoError(t, p.Validate())
	assert.Error(t, (&Player{Name: "Alice"}).Validate())
	assert.Error(t, (&Player{ID: "x"}).Validate())
}

func TestMatchValidate(t *testing.T) {
	valid := func() Match {
		return Match{
			ID: "M1-1", Round: 1, Order: 1,
			Player1: PlayerSlot("a"), Player2: PlayerSlot("b"),
			Status: StatusReady,
		}
	}
	base := valid()
	require.NoError(t, base.Validate())

	cases := []struct {
		name   string
		mutate func(*Match)
	}{
		{"missing id", func(m *Match) { m.ID = "" }},
		{"zero round", func(m *Match) { m.Round = 0 }},
		{"zero order", func(m *Match) { m.Order = 0 }},
		{"unknown status", func(m *Match) { m.Status = "running" }},
		{"bad slot kind", func(m *Match) { m.Player1.Kind = "ghost" }},
		{"player slot without id", func(m *Match) { m.Player2 = Slot{Kind: SlotPlayer} }},
		{"completed without winner", func(m *Match) { m.Status = StatusCompleted }},
		{"bye with player winner", func(m *Match) {
			m.Status = StatusBye
			m.Winner = PlayerSlot("a")
		}},
		{"ready with winner", func(m *Match) { m.Winner = PlayerSlot("a") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := valid()
			tc.mutate(&m)
			assert.Error(t, m.Validate())
		})
	}
}
