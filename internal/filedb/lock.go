package filedb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ErrLockTimeout is returned when the collection lock could not be acquired
// within the retry budget. The failure is transient; callers may retry.
var ErrLockTimeout = errors.New("filedb: lock acquisition timed out")

// fileLock is a cooperative cross-process lock: a sentinel file created with
// O_CREAT|O_EXCL whose presence signals "locked". It only excludes writers
// that honor it.
type fileLock struct {
	path   string
	policy LockPolicy
	logger *zap.Logger
}

func (s *Store) lockFor(spec Spec) *fileLock {
	return &fileLock{
		path:   s.filePath(spec) + ".lock",
		policy: s.lock,
		logger: s.logger,
	}
}

// acquire retries sentinel creation with a fixed delay up to the attempt
// ceiling. A sentinel older than StaleAfter is treated as an orphan from a
// crashed writer and removed.
func (l *fileLock) acquire(ctx context.Context) error {
	for attempt := 0; attempt < l.policy.Attempts; attempt++ {
		fd, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			// The pid is informational, for operators inspecting a stuck lock.
			_, _ = fd.WriteString(strconv.Itoa(os.Getpid()))
			return fd.Close()
		}
		if !os.IsExist(err) {
			return fmt.Errorf("create lock file %s: %w", l.path, err)
		}

		l.removeIfStale()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.policy.Delay):
		}
	}
	return fmt.Errorf("%w: %s after %d attempts", ErrLockTimeout, l.path, l.policy.Attempts)
}

// release removes the sentinel. Failure to remove is logged, not returned:
// the staleness cutoff will eventually reclaim the lock either way.
func (l *fileLock) release() {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		l.logger.Warn("failed to release collection lock",
			zap.String("lock", l.path), zap.Error(err))
	}
}

// removeIfStale reclaims an orphaned sentinel. The reclaim renames the
// sentinel to a unique name first: the rename succeeds for exactly one
// waiter, so concurrent reclaimers cannot all delete-and-recreate their way
// into the critical section together.
func (l *fileLock) removeIfStale() {
	if l.policy.StaleAfter <= 0 {
		return
	}
	info, err := os.Stat(l.path)
	if err != nil {
		return
	}
	if time.Since(info.ModTime()) < l.policy.StaleAfter {
		return
	}

	claimed := fmt.Sprintf("%s.stale-%d-%d", l.path, os.Getpid(), time.Now().UnixNano())
	if err := os.Rename(l.path, claimed); err != nil {
		// Another waiter claimed it, or the holder released in the window.
		return
	}

	// The sentinel may have been released and recreated by a live writer
	// between the stat and the rename. Verify on the claimed file and hand
	// a live sentinel back.
	claimedInfo, err := os.Stat(claimed)
	if err == nil && time.Since(claimedInfo.ModTime()) < l.policy.StaleAfter {
		if err := os.Rename(claimed, l.path); err != nil {
			os.Remove(claimed)
		}
		return
	}

	os.Remove(claimed)
	l.logger.Warn("reclaimed stale collection lock",
		zap.String("lock", l.path), zap.Duration("age", time.Since(info.ModTime())))
}
