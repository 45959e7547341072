// Package logstore implements per-container append-only log files
// (spec §4.8): <data-root>/logs/<container_id>.log. There is no rotation;
// compaction is the operator's responsibility.
package logstore

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/containust/containust/internal/primitives"
)

// Store roots per-container log files under dataRoot/logs.
type Store struct {
	dataRoot string
}

// New returns a Store rooted at dataRoot.
func New(dataRoot string) *Store {
	return &Store{dataRoot: dataRoot}
}

func (s *Store) path(containerID string) string {
	return filepath.Join(s.dataRoot, "logs", containerID+".log")
}

// Read returns the empty string if the file does not exist.
func (s *Store) Read(containerID string) (string, error) {
	data, err := os.ReadFile(s.path(containerID))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", primitives.NewIo(s.path(containerID), "reading log file", err)
	}
	return string(data), nil
}

// Append opens the container's log file create+append and writes a single
// line (a trailing newline is added if line does not already end in one).
func (s *Store) Append(containerID, line string) error {
	p := s.path(containerID)
	if err := primitives.EnsureDir(filepath.Dir(p)); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return primitives.NewIo(p, "opening log file", err)
	}
	defer f.Close()
	if len(line) == 0 || line[len(line)-1] != '\n' {
		line += "\n"
	}
	if _, err := f.WriteString(line); err != nil {
		return primitives.NewIo(p, "appending to log file", err)
	}
	return nil
}

// Follow streams newly appended lines to out until ctx is cancelled. It
// polls for growth and reopens the file if it is absent at call time,
// mirroring the teacher's log-tailing tool's reopen-on-truncate approach
// (cmd/slogtail) without introducing a new dependency for this module.
func (s *Store) Follow(ctx context.Context, containerID string, out chan<- string) error {
	p := s.path(containerID)
	var f *os.File
	var offset int64
	const pollInterval = 250 * time.Millisecond

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if f != nil {
				f.Close()
			}
			return nil
		case <-ticker.C:
		}

		if f == nil {
			opened, err := os.Open(p)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return primitives.NewIo(p, "opening log file for follow", err)
			}
			f = opened
		}

		info, err := f.Stat()
		if err != nil {
			return primitives.NewIo(p, "statting log file", err)
		}
		if info.Size() < offset {
			// Truncated/rotated underneath us: reopen from the start.
			f.Close()
			f = nil
			offset = 0
			continue
		}
		if info.Size() == offset {
			continue
		}

		if _, err := f.Seek(offset, 0); err != nil {
			return primitives.NewIo(p, "seeking log file", err)
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			select {
			case out <- scanner.Text():
			case <-ctx.Done():
				return nil
			}
		}
		pos, err := f.Seek(0, 1)
		if err == nil {
			offset = pos
		}
	}
}
