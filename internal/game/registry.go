package game

import (
	"sort"

	"trivia-arena/internal/domain"
)

// Registry tracks every connected player, keyed by connection identity.
// It is not safe for concurrent use; the session serializes all access.
type Registry struct {
	players map[string]*domain.Player
	// joined preserves insertion order for stable score tie-breaks.
	joined []string
}

func NewRegistry() *Registry {
	return &Registry{players: make(map[string]*domain.Player)}
}

// Join registers a new player. A connection that is already present is a
// reconnect, surfaced as ErrDuplicateJoin with no state reset.
func (r *Registry) Join(connID, userID, name, grade string) (*domain.Player, error) {
	if userID == "" {
		return nil, domain.ErrMissingIdentity
	}
	if p, ok := r.players[connID]; ok {
		return p, domain.ErrDuplicateJoin
	}
	p := &domain.Player{
		ConnID: connID,
		UserID: userID,
		Name:   name,
		Grade:  grade,
		Stats:  domain.NewTournamentStats(),
	}
	r.players[connID] = p
	r.joined = append(r.joined, connID)
	return p, nil
}

func (r *Registry) Get(connID string) (*domain.Player, bool) {
	p, ok := r.players[connID]
	return p, ok
}

// SetReady marks the player ready. Reports whether anything changed;
// unknown connections and repeated toggles are no-ops.
func (r *Registry) SetReady(connID string) bool {
	p, ok := r.players[connID]
	if !ok || p.Ready {
		return false
	}
	p.Ready = true
	return true
}

// Remove deletes the player and returns its final state, or nil if absent.
func (r *Registry) Remove(connID string) *domain.Player {
	p, ok := r.players[connID]
	if !ok {
		return nil
	}
	delete(r.players, connID)
	for i, id := range r.joined {
		if id == connID {
			r.joined = append(r.joined[:i], r.joined[i+1:]...)
			break
		}
	}
	return p
}

func (r *Registry) Count() int {
	return len(r.players)
}

// AllReady reports whether at least one player is present and every player
// has toggled ready.
func (r *Registry) AllReady() bool {
	if len(r.players) == 0 {
		return false
	}
	for _, p := range r.players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// SortedByScore returns players ordered by descending score, ties broken by
// join order.
func (r *Registry) SortedByScore() []*domain.Player {
	out := make([]*domain.Player, 0, len(r.joined))
	for _, id := range r.joined {
		out = append(out, r.players[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// ResetForTournament zeroes score, combo, readiness and every per-tournament
// accumulator for all current players.
func (r *Registry) ResetForTournament() {
	for _, p := range r.players {
		p.Score = 0
		p.Combo = 0
		p.Ready = false
		p.Stats = domain.NewTournamentStats()
	}
}

// Clear drops every player; used when the session returns to idle.
func (r *Registry) Clear() {
	r.players = make(map[string]*domain.Player)
	r.joined = nil
}
