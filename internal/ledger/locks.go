package ledger

import "sync"

// TripLocks hands out one mutex per trip ID. Entries are reference counted
// and dropped once no goroutine holds or waits for them.
type TripLocks struct {
	mu    sync.Mutex
	locks map[string]*tripLock
}

type tripLock struct {
	mu   sync.Mutex
	refs int
}

// NewTripLocks creates an empty lock table.
func NewTripLocks() *TripLocks {
	return &TripLocks{locks: make(map[string]*tripLock)}
}

// Lock blocks until the caller holds the lock for tripID and returns the
// function that releases it.
func (l *TripLocks) Lock(tripID string) (unlock func()) {
	l.mu.Lock()
	tl, ok := l.locks[tripID]
	if !ok {
		tl = &tripLock{}
		l.locks[tripID] = tl
	}
	tl.refs++
	l.mu.Unlock()

	tl.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			tl.mu.Unlock()

			l.mu.Lock()
			tl.refs--
			if tl.refs == 0 {
				delete(l.locks, tripID)
			}
			l.mu.Unlock()
		})
	}
}

// size reports how many trips currently have a lock entry.
func (l *TripLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
