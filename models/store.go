package models

// Store is a backing that persists the full tournament state: the player
// registry, the match graph, the settings, and the pointer to the match being
// scored right now. Implementations are free to choose their own layout as
// long as reads return what the last write saved.
//
// The engine assumes a single active client; there is no optimistic
// concurrency control, and concurrent writers will overwrite each other.
type Store interface {
	SavePlayer(p *Player) error
	DeletePlayer(id string) error
	Player(id string) (*Player, error)
	Players() ([]Player, error)

	// ReplaceMatches swaps the entire match graph in one go; the graph is
	// only ever persisted wholesale.
	ReplaceMatches(matches []Match) error
	SaveMatch(m *Match) error
	Match(id string) (*Match, error)
	Matches() ([]Match, error)

	Settings() (Settings, error)
	SaveSettings(s Settings) error

	// The current-match pointer exists only while a match is being scored.
	// startedAt is epoch milliseconds, zero when re-scoring a completed match.
	SetCurrentMatch(matchID string, startedAt int64) error
	CurrentMatch() (matchID string, startedAt int64, err error)
	ClearCurrentMatch() error

	Close() error
}
