package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"trivia-arena/internal/domain"
)

// Settlement credits XP and resource counters to the durable player profile.
// Increments are additive, so at-least-once delivery from the session is
// acceptable within one tournament.
type Settlement struct {
	pool *pgxpool.Pool
}

func NewSettlement(pool *pgxpool.Pool) *Settlement {
	return &Settlement{pool: pool}
}

func (s *Settlement) Credit(ctx context.Context, userID string, xp int, resources map[domain.ResourceKind]int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin settlement: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := creditXP(ctx, tx, userID, xp); err != nil {
		return err
	}
	for kind, count := range resources {
		if count <= 0 {
			continue
		}
		if err := creditResource(ctx, tx, userID, kind, count); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func creditXP(ctx context.Context, tx pgx.Tx, userID string, xp int) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO player_profiles (user_id, xp) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET xp = player_profiles.xp + EXCLUDED.xp`,
		userID, xp)
	if err != nil {
		return fmt.Errorf("credit xp for %s: %w", userID, err)
	}
	return nil
}

func creditResource(ctx context.Context, tx pgx.Tx, userID string, kind domain.ResourceKind, count int) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO player_resources (user_id, kind, count) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, kind) DO UPDATE SET count = player_resources.count + EXCLUDED.count`,
		userID, string(kind), count)
	if err != nil {
		return fmt.Errorf("credit resource %s for %s: %w", kind, userID, err)
	}
	return nil
}
