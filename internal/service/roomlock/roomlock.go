// Package roomlock serializes read-modify-write cycles on a single room.
package roomlock

import (
	"context"
	"sync"
)

type Locker interface {
	Lock(ctx context.Context, code string) (unlock func(), err error)
}

type entry struct {
	sem  chan struct{}
	refs int
}

// Keyed is an in-process mutex per room code. Entries are dropped once nobody holds
// or waits for them.
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewKeyed() *Keyed {
	return &Keyed{
		entries: make(map[string]*entry),
	}
}

func (k *Keyed) Lock(ctx context.Context, code string) (func(), error) {
	k.mu.Lock()
	e, ok := k.entries[code]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		k.entries[code] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		k.release(code, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			k.release(code, e)
		})
	}, nil
}

func (k *Keyed) release(code string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(k.entries, code)
	}
}

func (k *Keyed) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

// Chain acquires every locker in order and releases them in reverse order.
func Chain(lockers ...Locker) Locker {
	return chain(lockers)
}

type chain []Locker

func (c chain) Lock(ctx context.Context, code string) (func(), error) {
	unlocks := make([]func(), 0, len(c))
	releaseAll := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, l := range c {
		unlock, err := l.Lock(ctx, code)
		if err != nil {
			releaseAll()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return releaseAll, nil
}
