package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/sirupsen/logrus"
	"github.com/titanous/json5"

	"github.com/example/fumoto-monitor/internal/domain/reservation"
)

const notifiedFile = "notified_sets.json"

type rawSet struct {
	ID           any    `json:"id"`
	Name         string `json:"name"`
	StartDate    string `json:"start_date"`
	Nights       *int   `json:"nights"`
	Adults       *int   `json:"adults"`
	Children     int    `json:"children"`
	Preschoolers int    `json:"preschoolers"`
	AutoReserve  bool   `json:"auto_reserve"`
}

type rawConfig struct {
	NotificationSets []rawSet `json:"notification_sets"`
	CheckInterval    *int     `json:"check_interval"`
}

// Store is the on-disk configuration: config.json plus an optional
// config.local.json overlay, both JSON5.
type Store struct {
	Path string
	Log  logrus.FieldLogger
}

func (s Store) localPath() string {
	ext := filepath.Ext(s.Path)
	return strings.TrimSuffix(s.Path, ext) + ".local" + ext
}

func readJSON5(path string, out *rawConfig) (bool, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return false, nil
	}
	if err := json5.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// Load never fails hard: a missing file yields the defaults and a broken file
// yields the defaults plus the parse error.
func (s Store) Load(ctx context.Context) (reservation.Settings, error) {
	out := reservation.DefaultSettings()
	if err := ctx.Err(); err != nil {
		return out, err
	}

	var raw rawConfig
	if _, err := readJSON5(s.Path, &raw); err != nil {
		return out, err
	}
	var local rawConfig
	found, err := readJSON5(s.localPath(), &local)
	if err != nil {
		return out, err
	}
	if found {
		if err := mergo.Merge(&raw, local, mergo.WithOverride); err != nil {
			return out, fmt.Errorf("merge %s: %w", s.localPath(), err)
		}
		if s.Log != nil {
			s.Log.WithField("local", s.localPath()).Debug("merged local config overrides")
		}
	}

	if raw.CheckInterval != nil && *raw.CheckInterval > 0 {
		out.CheckInterval = time.Duration(*raw.CheckInterval) * time.Second
	}
	seen := map[reservation.SetID]bool{}
	for i, r := range raw.NotificationSets {
		set, err := r.toSet()
		if err == nil && seen[set.ID] {
			err = fmt.Errorf("duplicate id %q", set.ID)
		}
		if err != nil {
			out.Rejected = append(out.Rejected, fmt.Errorf("notification_sets[%d]: %w", i, err))
			continue
		}
		seen[set.ID] = true
		out.Sets = append(out.Sets, set)
	}
	return out, nil
}

func (r rawSet) toSet() (reservation.NotificationSet, error) {
	id, err := normalizeID(r.ID)
	if err != nil {
		return reservation.NotificationSet{}, err
	}
	set := reservation.NotificationSet{
		ID:           id,
		Name:         r.Name,
		StartDate:    strings.TrimSpace(r.StartDate),
		Nights:       1,
		Adults:       1,
		Children:     r.Children,
		Preschoolers: r.Preschoolers,
		AutoReserve:  r.AutoReserve,
	}
	if r.Nights != nil {
		set.Nights = *r.Nights
	}
	if r.Adults != nil {
		set.Adults = *r.Adults
	}
	if err := set.Validate(); err != nil {
		return reservation.NotificationSet{}, err
	}
	return set, nil
}

func normalizeID(v any) (reservation.SetID, error) {
	switch id := v.(type) {
	case float64:
		if id != math.Trunc(id) {
			return reservation.SetID(strconv.FormatFloat(id, 'f', -1, 64)), nil
		}
		return reservation.SetID(strconv.FormatInt(int64(id), 10)), nil
	case string:
		if s := strings.TrimSpace(id); s != "" {
			return reservation.SetID(s), nil
		}
	}
	return "", fmt.Errorf("id must be a number or a non-empty string, got %v", v)
}

func (s Store) notifiedPath() string {
	return filepath.Join(filepath.Dir(s.Path), notifiedFile)
}

// LoadNotified returns the ids saved by the last SaveNotified, or none.
func (s Store) LoadNotified() ([]reservation.SetID, error) {
	b, err := os.ReadFile(s.notifiedPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []reservation.SetID
	if err := json.Unmarshal(b, &ids); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.notifiedPath(), err)
	}
	return ids, nil
}

// SaveNotified replaces the saved ids atomically.
func (s Store) SaveNotified(_ context.Context, ids []reservation.SetID) error {
	if ids == nil {
		ids = []reservation.SetID{}
	}
	b, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, notifiedFile+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.notifiedPath())
}
