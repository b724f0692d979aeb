// Package backup writes the local fallback snapshot used when the
// remote store rejects a save. One file, one snapshot: each failure
// overwrites the previous one, data is not accumulated as a log.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const DefaultPath = "onboarding_backup.json"

type Snapshot struct {
	SavedAt  string            `json:"saved_at"`
	Identity *string           `json:"identity"`
	Answers  map[string]string `json:"answers"`
}

type Store struct {
	path string
}

func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

func (s *Store) Write(identity *string, answers map[string]string) error {
	snap := Snapshot{
		SavedAt:  time.Now().UTC().Format(time.RFC3339),
		Identity: identity,
		Answers:  answers,
	}
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) Read() (*Snapshot, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	return &snap, nil
}
