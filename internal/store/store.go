package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/billyoftea/shefradar/internal/fetcher"
)

// Store persists one day's snapshot and rendered report as flat files
// under a single directory, one pair per calendar day.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// SaveReport writes the rendered text report and returns its path.
func (s *Store) SaveReport(snap *fetcher.Snapshot, text string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("market_report_%s.txt", snap.Timestamp.Format("20060102")))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// SaveSnapshot writes the snapshot JSON document and returns its path.
func (s *Store) SaveSnapshot(snap *fetcher.Snapshot) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("market_data_%s.json", snap.Timestamp.Format("20060102")))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}
