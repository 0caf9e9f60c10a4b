// Package membership keeps the reverse mapping from a connection to the rooms it is part of,
// so that a disconnect only touches those rooms.
package membership

import (
	"slices"
	"sync"
)

type Index struct {
	mu    sync.RWMutex
	rooms map[string]map[string]struct{}
}

func New() *Index {
	return &Index{
		rooms: make(map[string]map[string]struct{}),
	}
}

func (i *Index) Attach(connID, code string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	set, ok := i.rooms[connID]
	if !ok {
		set = make(map[string]struct{})
		i.rooms[connID] = set
	}
	set[code] = struct{}{}
}

func (i *Index) Detach(connID, code string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	set, ok := i.rooms[connID]
	if !ok {
		return
	}
	delete(set, code)
	if len(set) == 0 {
		delete(i.rooms, connID)
	}
}

// RoomsFor returns a sorted copy of the room codes attached to the connection.
func (i *Index) RoomsFor(connID string) []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	set := i.rooms[connID]
	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.rooms)
}
