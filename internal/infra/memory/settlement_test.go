package memory

import (
	"context"
	"testing"

	"trivia-arena/internal/domain"
)

func TestSettlementAccumulates(t *testing.T) {
	sink := NewSettlement()
	ctx := context.Background()

	if err := sink.Credit(ctx, "u1", 30, map[domain.ResourceKind]int{domain.ResourceAbacus: 2}); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := sink.Credit(ctx, "u1", 20, map[domain.ResourceKind]int{domain.ResourceAbacus: 1, domain.ResourceGlobe: 3}); err != nil {
		t.Fatalf("credit: %v", err)
	}

	xp, resources := sink.Balance("u1")
	if xp != 50 {
		t.Errorf("expected 50 xp, got %d", xp)
	}
	if resources[domain.ResourceAbacus] != 3 || resources[domain.ResourceGlobe] != 3 {
		t.Errorf("unexpected resources %+v", resources)
	}

	if xp, _ := sink.Balance("unknown"); xp != 0 {
		t.Errorf("unknown user should have zero balance, got %d", xp)
	}
}
