package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	apperrors "treasury/internal/errors"
	"treasury/internal/logger"
	"treasury/internal/metrics"
	"treasury/internal/models"
)

// AccountLockKey returns the lock key of a bank account.
func AccountLockKey(id string) string { return "account:" + id }

// DocumentLockKey returns the lock key of a document.
func DocumentLockKey(ref models.DocumentRef) string { return "document:" + ref.String() }

// lockManager hands out one binary semaphore per key. Keys are always taken
// in sorted order, so "account:*" keys precede "document:*" keys and two
// callers can never wait on each other in a cycle.
type lockManager struct {
	mu      sync.Mutex
	sems    map[string]*keyLock
	timeout time.Duration
	metrics *metrics.Metrics
}

// keyLock counts holders and waiters; the entry is dropped when refs hits zero.
type keyLock struct {
	sem  *semaphore.Weighted
	refs int
}

// NewLockManager creates a LockManager whose acquisitions give up after timeout.
func NewLockManager(timeout time.Duration, m *metrics.Metrics) LockManager {
	return &lockManager{
		sems:    make(map[string]*keyLock),
		timeout: timeout,
		metrics: m,
	}
}

func (l *lockManager) ref(key string) *keyLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	kl, ok := l.sems[key]
	if !ok {
		kl = &keyLock{sem: semaphore.NewWeighted(1)}
		l.sems[key] = kl
	}
	kl.refs++
	return kl
}

func (l *lockManager) unref(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kl.refs--
	if kl.refs == 0 && l.sems[key] == kl {
		delete(l.sems, key)
	}
}

// Acquire takes all keys or none.
func (l *lockManager) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = normalizeKeys(keys)

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	held := make([]*keyLock, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].sem.Release(1)
			l.unref(keys[i], held[i])
		}
	}

	for _, key := range keys {
		kl := l.ref(key)
		if err := kl.sem.Acquire(ctx, 1); err != nil {
			l.unref(key, kl)
			release()
			l.metrics.IncrLockBusy()
			logger.Get().Warnw("lock acquisition timed out",
				"key", key,
				"keys", keys,
				"waited", time.Since(start),
			)
			return nil, apperrors.Wrap(apperrors.ErrBusy, err)
		}
		held = append(held, kl)
	}

	l.metrics.ObserveLockWait(time.Since(start))

	var once sync.Once
	return func() { once.Do(release) }, nil
}

// size reports how many keys currently have a semaphore.
func (l *lockManager) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sems)
}

// normalizeKeys drops empty and duplicate keys and sorts the rest.
func normalizeKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
