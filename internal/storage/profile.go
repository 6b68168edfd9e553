package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/tileroll/internal/core"
)

// Profile keys.
const (
	keyHighScore = "high_score"
	keySelected  = "selected_cube_id"
	keyCubelets  = "cubelets"
	keyPurchased = "purchased"
)

// DefaultProfile is used when no profile name is given.
const DefaultProfile = "local"

// Profile is a key-value view of the store for one player.
type Profile struct {
	store *Store
	name  string
}

// Profile returns the key-value view for name.
func (s *Store) Profile(name string) *Profile {
	if name == "" {
		name = DefaultProfile
	}
	return &Profile{store: s, name: name}
}

// Name returns the profile name.
func (p *Profile) Name() string {
	return p.name
}

// get returns the value for key and whether it exists.
func (p *Profile) get(key string) (string, bool, error) {
	var v string
	err := p.store.db.QueryRow(
		"SELECT value FROM profile_kv WHERE profile = ? AND key = ?",
		p.name, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read %s: %w", key, err)
	}
	return v, true, nil
}

// set writes value for key.
func (p *Profile) set(key, value string) error {
	_, err := p.store.db.Exec(
		`INSERT INTO profile_kv (profile, key, value, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(profile, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		p.name, key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %s: %w", key, err)
	}
	return nil
}

func (p *Profile) getInt(key string) (int, error) {
	v, ok, err := p.get(key)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("storage: corrupt %s %q: %w", key, v, err)
	}
	return n, nil
}

// LoadHighScore returns the stored high score, 0 if none.
func (p *Profile) LoadHighScore() (int, error) {
	return p.getInt(keyHighScore)
}

// SaveHighScore stores the high score.
func (p *Profile) SaveHighScore(score int) error {
	return p.set(keyHighScore, strconv.Itoa(score))
}

// LoadSelectedCubeID returns the stored cube id and whether one was saved.
func (p *Profile) LoadSelectedCubeID() (string, bool, error) {
	return p.get(keySelected)
}

// SaveSelectedCubeID stores the selected cube id.
func (p *Profile) SaveSelectedCubeID(id string) error {
	return p.set(keySelected, id)
}

// LoadCubelets returns the stored currency balance.
func (p *Profile) LoadCubelets() (int, error) {
	return p.getInt(keyCubelets)
}

// SaveCubelets stores the currency balance.
func (p *Profile) SaveCubelets(n int) error {
	return p.set(keyCubelets, strconv.Itoa(n))
}

// LoadPurchased returns the ids of cubes bought with cubelets.
func (p *Profile) LoadPurchased() ([]string, error) {
	v, ok, err := p.get(keyPurchased)
	if err != nil || !ok || v == "" {
		return nil, err
	}
	return strings.Split(v, ","), nil
}

// SavePurchased stores the ids of cubes bought with cubelets.
func (p *Profile) SavePurchased(ids []string) error {
	return p.set(keyPurchased, strings.Join(ids, ","))
}

// RecordRun appends a finished run to the history.
func (p *Profile) RecordRun(r core.RunResult) error {
	return p.store.SaveRun(p.name, r)
}

// GamesPlayed returns the number of recorded runs.
func (p *Profile) GamesPlayed() (int, error) {
	stats, err := p.store.RunStats(p.name)
	if err != nil {
		return 0, err
	}
	return stats.Games, nil
}
