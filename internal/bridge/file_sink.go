package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ProfileFile is the file name the keyboard extension reads.
const ProfileFile = "personality_profile.json"

// FileSink writes each event as JSON into <dir>/<user>/personality_profile.json,
// the shared container the keyboard extension reads from. Writes go through a
// temp file and rename so the reader never sees a partial document.
type FileSink struct {
	dir string
}

// NewFileSink creates a sink rooted at dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Path returns where the profile for userID is written.
func (s *FileSink) Path(userID string) string {
	return filepath.Join(s.dir, filepath.Base(userID), ProfileFile)
}

// Deliver implements Sink.
func (s *FileSink) Deliver(ctx context.Context, ev ProfileEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ev.UserID == "" {
		return fmt.Errorf("profile event has no user id")
	}

	data, err := json.MarshalIndent(ev, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling profile event: %w", err)
	}

	path := s.Path(ev.UserID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", filepath.Dir(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".profile-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
