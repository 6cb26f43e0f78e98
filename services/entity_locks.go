package services

import "sync"

// entityLocks serializes mutations per entity id so two concurrent
// operations on the same entity never interleave their check, remote call
// and metadata transaction. Creates lock on the parent id, which also
// serializes the sibling-name uniqueness check.
type entityLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newEntityLocks() *entityLocks {
	return &entityLocks{locks: make(map[uint]*sync.Mutex)}
}

func (l *entityLocks) acquire(entityID uint) (release func()) {
	l.mu.Lock()
	m, ok := l.locks[entityID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[entityID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
