package portfolio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// State is the serialized portfolio snapshot written between runs so a
// restarted process resumes its accounting instead of starting blind.
type State struct {
	Version      string        `json:"version"`
	LastUpdated  time.Time     `json:"last_updated"`
	Positions    []Position    `json:"positions"`
	ClosedTrades []ClosedTrade `json:"closed_trades"`
	TotalPnL     float64       `json:"total_pnl"`
}

const stateVersion = "1.0"

// SaveState writes the tracker snapshot to path atomically (temp file then
// rename), so a crash mid-write never corrupts the previous state.
func SaveState(t *Tracker, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	state := State{
		Version:      stateVersion,
		LastUpdated:  time.Now(),
		Positions:    t.OpenPositions(),
		ClosedTrades: t.ClosedTrades(),
		TotalPnL:     t.TotalPnL(),
	}

	data, err := json.MarshalIndent(&state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp state file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		return fmt.Errorf("failed to move state file: %w", err)
	}
	return nil
}

// LoadState restores a tracker from a previously saved snapshot. A missing
// file is not an error: it returns a fresh tracker.
func LoadState(path string) (*Tracker, error) {
	t := NewTracker()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	for i := range state.Positions {
		pos := state.Positions[i]
		t.positions[pos.Key()] = &pos
	}
	t.closedTrades = state.ClosedTrades
	t.totalPnL = state.TotalPnL
	return t, nil
}
