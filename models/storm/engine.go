// Package storm persists tournament state in an embedded storm/bbolt
// key-value database.
package storm

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/asdine/storm"
	stormjson "github.com/asdine/storm/codec/json"

	"github.com/mmorrons/pingpong/models"
)

// Bucket and key names for the singleton values that sit alongside the
// player and match records.
const (
	tournamentBucket = "tournament"
	keySettings      = "settings"
	keyCurrentMatch  = "currentMatch"
	keyStartTime     = "matchStartTime"
)

type engine struct {
	db  *storm.DB
	log *slog.Logger
}

// NewStore opens (or creates) a store at path. Values are persisted as JSON.
func NewStore(path string, logger *slog.Logger) (models.Store, error) {
	db, err := storm.Open(path, storm.Codec(stormjson.Codec))
	if err != nil {
		return nil, fmt.Errorf("unable to open storage engine: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &engine{db: db, log: logger}, nil
}

// Close releases the underlying database file.
func (e *engine) Close() error {
	return e.db.Close()
}

func (e *engine) SavePlayer(p *models.Player) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := e.db.Save(p); err != nil {
		return fmt.Errorf("save player %s: %w", p.ID, err)
	}
	return nil
}

func (e *engine) DeletePlayer(id string) error {
	p, err := e.Player(id)
	if err != nil {
		return err
	}
	if err := e.db.DeleteStruct(p); err != nil {
		return fmt.Errorf("delete player %s: %w", id, err)
	}
	return nil
}

func (e *engine) Player(id string) (*models.Player, error) {
	var p models.Player
	err := e.db.One("ID", id, &p)
	if errors.Is(err, storm.ErrNotFound) {
		return nil, fmt.Errorf("player %s: %w", id, models.ErrPlayerNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load player %s: %w", id, err)
	}
	return &p, nil
}

func (e *engine) Players() ([]models.Player, error) {
	var players []models.Player
	if err := e.db.All(&players); err != nil {
		e.reset("players", err)
		return nil, nil
	}
	for i := range players {
		if err := players[i].Validate(); err != nil {
			e.reset("players", err)
			return nil, nil
		}
	}
	return players, nil
}

func (e *engine) ReplaceMatches(matches []models.Match) error {
	// Wholesale swap; an empty-bucket drop error just means nothing was
	// stored yet.
	if err := e.db.Drop(new(models.Match)); err != nil {
		e.log.Debug("dropping match bucket", slog.Any("error", err))
	}
	for i := range matches {
		if err := e.db.Save(&matches[i]); err != nil {
			return fmt.Errorf("save match %s: %w", matches[i].ID, err)
		}
	}
	return nil
}

func (e *engine) SaveMatch(m *models.Match) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := e.db.Save(m); err != nil {
		return fmt.Errorf("save match %s: %w", m.ID, err)
	}
	return nil
}

func (e *engine) Match(id string) (*models.Match, error) {
	var m models.Match
	err := e.db.One("ID", id, &m)
	if errors.Is(err, storm.ErrNotFound) {
		return nil, fmt.Errorf("match %s: %w", id, models.ErrMatchNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load match %s: %w", id, err)
	}
	return &m, nil
}

func (e *engine) Matches() ([]models.Match, error) {
	var matches []models.Match
	if err := e.db.All(&matches); err != nil {
		e.reset("matches", err)
		return nil, nil
	}
	for i := range matches {
		if err := matches[i].Validate(); err != nil {
			e.reset("matches", err)
			return nil, nil
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].Order < matches[j].Order
	})
	return matches, nil
}

func (e *engine) Settings() (models.Settings, error) {
	var s models.Settings
	err := e.db.Get(tournamentBucket, keySettings, &s)
	if errors.Is(err, storm.ErrNotFound) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		e.log.Warn("discarding unreadable settings", slog.Any("error", err))
		return models.DefaultSettings(), nil
	}
	if err := s.Validate(); err != nil {
		e.log.Warn("discarding invalid settings", slog.Any("error", err))
		return models.DefaultSettings(), nil
	}
	return s, nil
}

func (e *engine) SaveSettings(s models.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := e.db.Set(tournamentBucket, keySettings, &s); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (e *engine) SetCurrentMatch(matchID string, startedAt int64) error {
	if err := e.db.Set(tournamentBucket, keyCurrentMatch, matchID); err != nil {
		return fmt.Errorf("save current match pointer: %w", err)
	}
	if startedAt > 0 {
		if err := e.db.Set(tournamentBucket, keyStartTime, startedAt); err != nil {
			return fmt.Errorf("save match start time: %w", err)
		}
		return nil
	}
	if err := e.db.Delete(tournamentBucket, keyStartTime); err != nil && !errors.Is(err, storm.ErrNotFound) {
		return fmt.Errorf("clear match start time: %w", err)
	}
	return nil
}

func (e *engine) CurrentMatch() (string, int64, error) {
	var matchID string
	err := e.db.Get(tournamentBucket, keyCurrentMatch, &matchID)
	if errors.Is(err, storm.ErrNotFound) {
		return "", 0, models.ErrNoCurrentMatch
	}
	if err != nil {
		return "", 0, fmt.Errorf("load current match pointer: %w", err)
	}
	var startedAt int64
	if err := e.db.Get(tournamentBucket, keyStartTime, &startedAt); err != nil && !errors.Is(err, storm.ErrNotFound) {
		return "", 0, fmt.Errorf("load match start time: %w", err)
	}
	return matchID, startedAt, nil
}

func (e *engine) ClearCurrentMatch() error {
	for _, key := range []string{keyCurrentMatch, keyStartTime} {
		if err := e.db.Delete(tournamentBucket, key); err != nil && !errors.Is(err, storm.ErrNotFound) {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}

// reset discards a corrupt bucket so the engine restarts from an empty state
// instead of feeding half-parsed records forward. A bracket built over
// discarded matches is no longer meaningful, so the generated flag is lowered
// too.
func (e *engine) reset(what string, cause error) {
	e.log.Warn("discarding corrupt persisted state",
		slog.String("bucket", what),
		slog.Any("error", cause),
	)
	switch what {
	case "players":
		if err := e.db.Drop(new(models.Player)); err != nil {
			e.log.Debug("dropping player bucket", slog.Any("error", err))
		}
	case "matches":
		if err := e.db.Drop(new(models.Match)); err != nil {
			e.log.Debug("dropping match bucket", slog.Any("error", err))
		}
		if s, err := e.Settings(); err == nil && s.Generated {
			s.Generated = false
			if err := e.SaveSettings(s); err != nil {
				e.log.Warn("lowering generated flag", slog.Any("error", err))
			}
		}
	}
}
