package memory

import (
	"context"
	"log"
	"sync"

	"trivia-arena/internal/domain"
)

// Settlement accumulates credits in memory. It stands in for the persistent
// profile store during database-less runs and in tests.
type Settlement struct {
	mu        sync.Mutex
	xp        map[string]int
	resources map[string]map[domain.ResourceKind]int
}

func NewSettlement() *Settlement {
	return &Settlement{
		xp:        make(map[string]int),
		resources: make(map[string]map[domain.ResourceKind]int),
	}
}

func (s *Settlement) Credit(_ context.Context, userID string, xp int, resources map[domain.ResourceKind]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.xp[userID] += xp
	bucket, ok := s.resources[userID]
	if !ok {
		bucket = make(map[domain.ResourceKind]int)
		s.resources[userID] = bucket
	}
	for kind, n := range resources {
		bucket[kind] += n
	}
	log.Printf("credited user %s: +%d xp, %d resource kind(s)", userID, xp, len(resources))
	return nil
}

// Balance returns the accumulated totals for a user.
func (s *Settlement) Balance(userID string) (int, map[domain.ResourceKind]int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[domain.ResourceKind]int, len(s.resources[userID]))
	for kind, n := range s.resources[userID] {
		out[kind] = n
	}
	return s.xp[userID], out
}
