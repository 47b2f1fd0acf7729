// Package keyboard reads the interaction data written by the keyboard
// extension and derives individual communication analytics from it.
//
// The extension runs in a separate process and writes a JSON snapshot into
// a shared directory. Reads are eventually consistent: a missing snapshot is
// an empty one, not an error.
package keyboard

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotFile is the filename the extension writes per user.
const SnapshotFile = "keyboard_data.json"

// Tone is the traffic-light classification the keyboard assigns to a message.
type Tone string

const (
	ToneClear   Tone = "clear"
	ToneCaution Tone = "caution"
	ToneAlert   Tone = "alert"
)

// Tones lists tones in display order.
var Tones = []Tone{ToneClear, ToneCaution, ToneAlert}

// Snapshot is the comprehensive real-data payload from the extension.
type Snapshot struct {
	TotalInteractions   int          `json:"total_interactions"`
	ToneCounts          map[Tone]int `json:"tone_counts"`
	SuggestionsOffered  int          `json:"suggestions_offered"`
	SuggestionsAccepted int          `json:"suggestions_accepted"`
	LastActivity        string       `json:"last_activity,omitempty"`
}

// Empty reports whether the keyboard has never been used.
func (s *Snapshot) Empty() bool {
	return s == nil || s.TotalInteractions == 0
}

// Bridge reads keyboard snapshots.
type Bridge interface {
	GetComprehensiveRealData(ctx context.Context, userID string) (*Snapshot, error)
}

// FileBridge reads snapshots from <dir>/<userID>/keyboard_data.json.
type FileBridge struct {
	dir string
}

// NewFileBridge creates a FileBridge rooted at the shared directory.
func NewFileBridge(dir string) *FileBridge {
	return &FileBridge{dir: dir}
}

// SnapshotPath returns where the extension writes the user's snapshot.
func SnapshotPath(dir, userID string) string {
	return filepath.Join(dir, userID, SnapshotFile)
}

// GetComprehensiveRealData returns the latest snapshot. A missing file yields
// an empty snapshot.
func (b *FileBridge) GetComprehensiveRealData(ctx context.Context, userID string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(SnapshotPath(b.dir, userID))
	if err != nil {
		if os.IsNotExist(err) {
			return &Snapshot{ToneCounts: map[Tone]int{}}, nil
		}
		return nil, fmt.Errorf("reading keyboard snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing keyboard snapshot: %w", err)
	}
	if snap.ToneCounts == nil {
		snap.ToneCounts = map[Tone]int{}
	}
	if snap.TotalInteractions < 0 {
		return nil, fmt.Errorf("keyboard snapshot has negative interaction count %d", snap.TotalInteractions)
	}
	return &snap, nil
}
