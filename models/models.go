package models

import (
	"fmt"
	"math/bits"
	"math/rand"
	"strings"

	"github.com/rs/xid"
)

// MatchStatus tracks where a match sits in its lifecycle.
type MatchStatus string

const (
	// StatusPending means at least one slot is still waiting for a player.
	StatusPending MatchStatus = "pending"
	// StatusReady means both slots hold real players and the match can be scored.
	StatusReady MatchStatus = "ready"
	// StatusBye means both slots are byes; the bye sentinel advances.
	StatusBye MatchStatus = "bye"
	// StatusCompleted means a result has been recorded.
	StatusCompleted MatchStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s MatchStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReady, StatusBye, StatusCompleted:
		return true
	}
	return false
}

// GameFormat selects how many games decide a match.
type GameFormat string

const (
	FormatSingle      GameFormat = "single"
	FormatBestOfThree GameFormat = "bestOf3"
	FormatBestOfFive  GameFormat = "bestOf5"
)

// GamesToWin is the number of game wins that decide a match of this format.
func (f GameFormat) GamesToWin() int {
	switch f {
	case FormatBestOfThree:
		return 2
	case FormatBestOfFive:
		return 3
	}
	return 1
}

// Valid reports whether f is one of the known formats.
func (f GameFormat) Valid() bool {
	switch f {
	case FormatSingle, FormatBestOfThree, FormatBestOfFive:
		return true
	}
	return false
}

// SlotID identifies one of the two player positions in a match.
type SlotID string

const (
	SlotP1 SlotID = "p1"
	SlotP2 SlotID = "p2"
)

// SlotKind discriminates the Slot union.
type SlotKind string

const (
	SlotEmpty  SlotKind = "empty"
	SlotBye    SlotKind = "bye"
	SlotPlayer SlotKind = "player"
)

// Slot is a match position: not yet filled, a bye, or occupied by a player.
type Slot struct {
	Kind     SlotKind `json:"kind"`
	PlayerID string   `json:"playerId,omitempty"`
}

// EmptySlot is a position still waiting for a feeder match to decide.
func EmptySlot() Slot { return Slot{Kind: SlotEmpty} }

// ByeSlot is a position with no opponent; whoever faces it advances.
func ByeSlot() Slot { return Slot{Kind: SlotBye} }

// PlayerSlot is a position held by the given player.
func PlayerSlot(id string) Slot { return Slot{Kind: SlotPlayer, PlayerID: id} }

// IsEmpty treats the zero Slot as empty so that unset fields behave sanely.
func (s Slot) IsEmpty() bool { return s.Kind == SlotEmpty || s.Kind == "" }

func (s Slot) IsBye() bool { return s.Kind == SlotBye }

func (s Slot) IsPlayer() bool { return s.Kind == SlotPlayer }

// Is reports whether the slot is occupied by the given player.
func (s Slot) Is(playerID string) bool { return s.Kind == SlotPlayer && s.PlayerID == playerID }

func (s Slot) Equal(o Slot) bool {
	if s.IsEmpty() && o.IsEmpty() {
		return true
	}
	return s.Kind == o.Kind && s.PlayerID == o.PlayerID
}

func (s Slot) String() string {
	switch {
	case s.IsBye():
		return "BYE"
	case s.IsPlayer():
		return s.PlayerID
	}
	return "empty"
}

// Player is a registered tournament participant. Color and AvatarRef are
// cosmetic and backfilled with defaults when absent.
type Player struct {
	ID        string `storm:"id" json:"id"`
	Name      string `storm:"unique" json:"name"`
	Color     string `json:"color,omitempty"`
	AvatarRef string `json:"avatarRef,omitempty"`
}

// NewPlayer creates a player with a fresh id and a generated card color.
func NewPlayer(name string) Player {
	return Player{
		ID:    xid.New().String(),
		Name:  strings.TrimSpace(name),
		Color: RandomPastelColor(),
	}
}

// RandomPastelColor picks a light HSL color suitable as a card background.
func RandomPastelColor() string {
	hue := rand.Intn(360)
	saturation := rand.Intn(30) + 70
	lightness := rand.Intn(20) + 75
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", hue, saturation, lightness)
}

// GameScore is one finished game's point score as a [p1, p2] pair.
type GameScore [2]int

// Match is a single node in the bracket graph. MatchID encodes the round and
// position; NextMatchID/NextSlot wire the winner into the following round.
type Match struct {
	ID    string `storm:"id" json:"matchId"`
	Round int    `storm:"index" json:"round"`
	Order int    `json:"orderInRound"`

	Player1 Slot `json:"player1"`
	Player2 Slot `json:"player2"`

	Status      MatchStatus `json:"status"`
	Format      GameFormat  `json:"gameFormat"`
	TargetScore int         `json:"targetScore"`

	// Score1/Score2 hold the last game's points; GamesWon counts are only
	// meaningful for best-of formats. GameScores is the authoritative
	// game-by-game record.
	Score1     int         `json:"score1"`
	Score2     int         `json:"score2"`
	GamesWon1  int         `json:"gamesWon1"`
	GamesWon2  int         `json:"gamesWon2"`
	GameScores []GameScore `json:"gameScores,omitempty"`

	Winner Slot `json:"winner"`

	NextMatchID string `json:"nextMatchId,omitempty"`
	NextSlot    SlotID `json:"nextSlot,omitempty"`

	// Epoch milliseconds; Duration is derived, in seconds.
	StartedAt int64 `json:"startTime,omitempty"`
	EndedAt   int64 `json:"endTime,omitempty"`
	Duration  int   `json:"duration,omitempty"`
}

// Slot returns the contents of the given position.
func (m *Match) Slot(id SlotID) Slot {
	if id == SlotP2 {
		return m.Player2
	}
	return m.Player1
}

// SetSlot replaces the contents of the given position.
func (m *Match) SetSlot(id SlotID, s Slot) {
	if id == SlotP2 {
		m.Player2 = s
		return
	}
	m.Player1 = s
}

// References reports whether either slot holds the given player.
func (m *Match) References(playerID string) bool {
	return m.Player1.Is(playerID) || m.Player2.Is(playerID)
}

// IsByePairing reports whether the match pits the bye sentinel against itself.
func (m *Match) IsByePairing() bool {
	return m.Player1.IsBye() && m.Player2.IsBye()
}

// HasBye reports whether either slot is a bye.
func (m *Match) HasBye() bool {
	return m.Player1.IsBye() || m.Player2.IsBye()
}

// GamePoints sums every recorded game into aggregate point totals.
func (m *Match) GamePoints() (p1, p2 int) {
	for _, g := range m.GameScores {
		p1 += g[0]
		p2 += g[1]
	}
	return p1, p2
}

// Settings is the persisted tournament configuration.
type Settings struct {
	BracketSize int        `json:"bracketSize"`
	GameFormat  GameFormat `json:"gameFormat"`
	TargetScore int        `json:"targetScore"`
	Generated   bool       `json:"generated"`
}

// DefaultSettings mirrors a fresh tournament before any bracket exists.
func DefaultSettings() Settings {
	return Settings{BracketSize: 16, GameFormat: FormatSingle, TargetScore: 11}
}

// Rounds is the number of bracket rounds for the configured size.
func (s Settings) Rounds() int {
	if s.BracketSize < 2 {
		return 0
	}
	return bits.TrailingZeros(uint(s.BracketSize))
}

// PowerOfTwo reports whether n is a valid bracket size.
func PowerOfTwo(n int) bool {
	return n >= 2 && n&(n-1) == 0
}
