// Package dashboard implements the reporting endpoint: it keeps the latest
// payload per account and serves them to the dashboard frontend.
package dashboard

import (
	"encoding/json"
	"sync"
)

const (
	BoxMT4 = "mt4"
	BoxMT5 = "mt5"
)

// Snapshot is the dashboard document: platform box to account id to the
// last payload received from that account.
type Snapshot map[string]map[string]json.RawMessage

// Store keeps the latest payload per account, in memory only.
type Store struct {
	mu    sync.RWMutex
	boxes Snapshot
}

func NewStore() *Store {
	return &Store{boxes: Snapshot{
		BoxMT4: {},
		BoxMT5: {},
	}}
}

// BoxFor routes "MT5" payloads to the mt5 box; anything else, including
// a missing platform, belongs to mt4.
func BoxFor(platform string) string {
	if platform == "MT5" {
		return BoxMT5
	}
	return BoxMT4
}

// Put replaces the stored payload of id and returns the box it went to.
func (s *Store) Put(platform, id string, payload json.RawMessage) string {
	box := BoxFor(platform)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.boxes[box][id] = append(json.RawMessage(nil), payload...)
	return box
}

// Snapshot returns a copy that is safe to encode without holding the lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(Snapshot, len(s.boxes))
	for box, accounts := range s.boxes {
		cp := make(map[string]json.RawMessage, len(accounts))
		for id, p := range accounts {
			cp[id] = p
		}
		out[box] = cp
	}
	return out
}
