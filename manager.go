// Package pingpong manages single-elimination table-tennis tournaments:
// player registration, bracket generation with byes, live match scoring under
// win-by-two rules, automatic winner advancement, and match history. All
// state lives in a models.Store; see models/storm for the embedded key-value
// implementation.
package pingpong

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/mmorrons/pingpong/models"
	"github.com/mmorrons/pingpong/tournament"
)

// Display names for slots that do not resolve to a registered player.
const (
	NameTBD           = "TBD"
	NameBye           = "BYE"
	NameRemovedPlayer = "Removed Player"
)

// MatchRecord is a completed match joined with display names for its
// participants. Names of players no longer in the registry resolve to
// NameRemovedPlayer rather than failing the read.
type MatchRecord struct {
	models.Match
	Player1Name string
	Player2Name string
	WinnerName  string
}

// Manager is the engine facade the UI collaborators drive. It owns the store;
// every operation is a synchronous read-modify-write of the persisted state.
type Manager struct {
	store models.Store
	log   *slog.Logger
	now   func() int64
}

// New creates a manager over the given store. A nil logger falls back to
// slog.Default.
func New(store models.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store: store,
		log:   logger,
		now:   func() int64 { return time.Now().UnixMilli() },
	}
}

// AddPlayer registers a player. Names are trimmed and must be unique
// case-insensitively at add time. An empty avatarRef keeps the default.
func (mgr *Manager) AddPlayer(name, avatarRef string) (models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Player{}, models.ErrPlayerNameRequired
	}
	existing, err := mgr.store.Players()
	if err != nil {
		return models.Player{}, err
	}
	for _, p := range existing {
		if strings.EqualFold(p.Name, name) {
			return models.Player{}, fmt.Errorf("%q: %w", name, models.ErrDuplicatePlayerName)
		}
	}
	p := models.NewPlayer(name)
	if avatarRef != "" {
		p.AvatarRef = avatarRef
	}
	if err := mgr.store.SavePlayer(&p); err != nil {
		return models.Player{}, err
	}
	mgr.log.Info("player added", slog.String("player", p.ID), slog.String("name", p.Name))
	return p, nil
}

// Players returns the registry sorted by name. Missing cosmetic defaults are
// backfilled and persisted on the way out.
func (mgr *Manager) Players() ([]models.Player, error) {
	players, err := mgr.store.Players()
	if err != nil {
		return nil, err
	}
	for i := range players {
		if players[i].Color != "" {
			continue
		}
		players[i].Color = models.RandomPastelColor()
		if err := mgr.store.SavePlayer(&players[i]); err != nil {
			return nil, err
		}
	}
	sort.Slice(players, func(i, j int) bool {
		return strings.ToLower(players[i].Name) < strings.ToLower(players[j].Name)
	})
	return players, nil
}

// RemovePlayer deletes a player from the registry and repairs every match
// that referenced them: the slot empties and the match resets to an unplayed
// state. Downstream matches that already consumed such a match's winner keep
// the stale reference; they are logged, not repaired.
func (mgr *Manager) RemovePlayer(id string) error {
	p, err := mgr.store.Player(id)
	if err != nil {
		return err
	}
	if err := mgr.store.DeletePlayer(id); err != nil {
		return err
	}

	matches, err := mgr.store.Matches()
	if err != nil {
		return err
	}
	if len(matches) > 0 {
		b := tournament.NewBracket(matches)
		affected, stale := tournament.RemoveFromBracket(b, id)
		if len(affected) > 0 {
			if err := mgr.store.ReplaceMatches(b.Matches()); err != nil {
				return err
			}
		}
		if len(stale) > 0 {
			mgr.log.Warn("removal leaves stale winners downstream; the bracket may need regeneration",
				slog.String("player", id),
				slog.Any("matches", stale),
			)
		}
	}
	mgr.log.Info("player removed", slog.String("player", id), slog.String("name", p.Name))
	return nil
}

// Settings returns the persisted tournament settings.
func (mgr *Manager) Settings() (models.Settings, error) {
	return mgr.store.Settings()
}

// UpdateSettings persists new settings. The generated flag is owned by
// GenerateBracket and carried over from the stored copy. Changing format or
// target with a live bracket affects future commits only; already-completed
// matches keep the settings they were played under.
func (mgr *Manager) UpdateSettings(s models.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	current, err := mgr.store.Settings()
	if err != nil {
		return err
	}
	s.Generated = current.Generated
	return mgr.store.SaveSettings(s)
}

// GenerateBracket builds a fresh match graph from the current roster and
// settings and replaces whatever graph existed. Regenerating over a live
// bracket discards all progress, so it requires force; without it the call
// fails with ErrBracketExists.
func (mgr *Manager) GenerateBracket(force bool) ([]models.Match, error) {
	settings, err := mgr.store.Settings()
	if err != nil {
		return nil, err
	}
	if settings.Generated && !force {
		return nil, models.ErrBracketExists
	}
	players, err := mgr.store.Players()
	if err != nil {
		return nil, err
	}
	matches, err := tournament.Build(players, settings)
	if err != nil {
		return nil, err
	}
	if err := mgr.store.ReplaceMatches(matches); err != nil {
		return nil, err
	}
	settings.Generated = true
	if err := mgr.store.SaveSettings(settings); err != nil {
		return nil, err
	}
	if err := mgr.store.ClearCurrentMatch(); err != nil {
		return nil, err
	}
	mgr.log.Info("bracket generated",
		slog.Int("size", settings.BracketSize),
		slog.Int("players", len(players)),
		slog.Int("byes", settings.BracketSize-len(players)),
	)
	return matches, nil
}

// Matches returns the match graph sorted by round then bracket position.
func (mgr *Manager) Matches() ([]models.Match, error) {
	return mgr.store.Matches()
}

// ScoreMatch opens a match for scoring and applies the given event sequence.
// The sequence must end the match with a Finish event; the completed record
// is then committed, the winner propagated into the next round, and the whole
// graph saved. A sequence that never finishes the match persists nothing and
// returns ErrNotYetWon — abandoning leaves the match at its last-saved state.
func (mgr *Manager) ScoreMatch(matchID string, events []tournament.Event) (*models.Match, error) {
	settings, err := mgr.store.Settings()
	if err != nil {
		return nil, err
	}
	matches, err := mgr.store.Matches()
	if err != nil {
		return nil, err
	}
	b := tournament.NewBracket(matches)
	target := b.Match(matchID)
	if target == nil {
		return nil, fmt.Errorf("score %s: %w", matchID, models.ErrMatchNotFound)
	}

	var startedAt int64
	if target.Status == models.StatusReady {
		startedAt = mgr.now()
	}
	scorer, err := tournament.NewScorer(target, settings, startedAt)
	if err != nil {
		return nil, err
	}
	if err := mgr.store.SetCurrentMatch(matchID, startedAt); err != nil {
		return nil, err
	}

	for _, ev := range events {
		switch ev.Kind {
		case tournament.EventPoint:
			scorer.Increment(ev.Slot, ev.Delta)
		case tournament.EventNextGame:
			scorer.NextGame()
		case tournament.EventFinish:
			completed, err := scorer.Commit(mgr.now())
			if err != nil {
				return nil, err
			}
			if err := tournament.Propagate(b, completed); err != nil {
				return nil, err
			}
			if err := mgr.store.ReplaceMatches(b.Matches()); err != nil {
				return nil, err
			}
			if err := mgr.store.ClearCurrentMatch(); err != nil {
				return nil, err
			}
			mgr.log.Info("match completed",
				slog.String("match", completed.ID),
				slog.String("winner", completed.Winner.String()),
				slog.Int("score1", completed.Score1),
				slog.Int("score2", completed.Score2),
			)
			result := *completed
			return &result, nil
		}
	}
	return nil, fmt.Errorf("score %s: no finish event: %w", matchID, models.ErrNotYetWon)
}

// CurrentMatch returns the match being scored right now, if any.
func (mgr *Manager) CurrentMatch() (*models.Match, error) {
	id, _, err := mgr.store.CurrentMatch()
	if err != nil {
		return nil, err
	}
	return mgr.store.Match(id)
}

// MatchHistory returns every completed match (bye pairings excluded) sorted
// by round then position, with participant names resolved for display.
func (mgr *Manager) MatchHistory() ([]MatchRecord, error) {
	matches, err := mgr.store.Matches()
	if err != nil {
		return nil, err
	}
	return mgr.toRecords(tournament.History(matches))
}

// PlayerHistory returns the completed matches a player contested, newest
// first. The player may already be gone from the registry.
func (mgr *Manager) PlayerHistory(playerID string) ([]MatchRecord, error) {
	matches, err := mgr.store.Matches()
	if err != nil {
		return nil, err
	}
	return mgr.toRecords(tournament.PlayerRecords(matches, playerID))
}

// PlayerRecord tallies a player's contested wins, losses, and point totals.
func (mgr *Manager) PlayerRecord(playerID string) (tournament.Record, error) {
	matches, err := mgr.store.Matches()
	if err != nil {
		return tournament.Record{}, err
	}
	return tournament.RecordFor(matches, playerID), nil
}

// Champion returns the tournament winner once the final is decided. The
// second return is false while the tournament is still running.
func (mgr *Manager) Champion() (models.Player, bool, error) {
	matches, err := mgr.store.Matches()
	if err != nil {
		return models.Player{}, false, err
	}
	winner, ok := tournament.Champion(tournament.NewBracket(matches))
	if !ok {
		return models.Player{}, false, nil
	}
	p, err := mgr.store.Player(winner.PlayerID)
	if errors.Is(err, models.ErrPlayerNotFound) {
		return models.Player{ID: winner.PlayerID, Name: NameRemovedPlayer}, true, nil
	}
	if err != nil {
		return models.Player{}, false, err
	}
	return *p, true, nil
}

func (mgr *Manager) toRecords(matches []models.Match) ([]MatchRecord, error) {
	players, err := mgr.store.Players()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	records := make([]MatchRecord, 0, len(matches))
	for _, m := range matches {
		records = append(records, MatchRecord{
			Match:       m,
			Player1Name: displayName(byID, m.Player1),
			Player2Name: displayName(byID, m.Player2),
			WinnerName:  displayName(byID, m.Winner),
		})
	}
	return records, nil
}

func displayName(players map[string]models.Player, s models.Slot) string {
	switch {
	case s.IsEmpty():
		return NameTBD
	case s.IsBye():
		return NameBye
	}
	if p, ok := players[s.PlayerID]; ok {
		return p.Name
	}
	return NameRemovedPlayer
}
