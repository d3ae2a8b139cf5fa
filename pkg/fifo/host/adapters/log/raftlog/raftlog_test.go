package raftlog

import (
	"context"
	"testing"

	"github.com/quorumq/quorumq/pkg/fifo"
	"github.com/quorumq/quorumq/pkg/fifo/host"
	"github.com/quorumq/quorumq/pkg/fifo/host/adapters/memory"
)

func TestProposeAssignsSequentialIndicesAndAppliesEffects(t *testing.T) {
	ctx := context.Background()
	state, initEffects := fifo.Init[string]("orders")
	adapter := memory.New[string]()
	executor := host.NewExecutor[string](adapter)
	if err := executor.Run(ctx, initEffects); err != nil {
		t.Fatalf("init effects: %v", err)
	}

	l := New[string](state, executor)

	idx1, err := l.Propose(ctx, fifo.EnqueueCommand{Message: "a"})
	if err != nil {
		t.Fatalf("propose 1: %v", err)
	}
	idx2, err := l.Propose(ctx, fifo.EnqueueCommand{Message: "b"})
	if err != nil {
		t.Fatalf("propose 2: %v", err)
	}
	if idx1 != 1 || idx2 != 2 {
		t.Fatalf("expected sequential indices 1,2, got %d,%d", idx1, idx2)
	}

	if _, err := l.Propose(ctx, fifo.CheckoutCommand[string]{CustomerID: "c1", Lifetime: fifo.Once, Num: 2}); err != nil {
		t.Fatalf("propose checkout: %v", err)
	}

	if len(adapter.Deliveries) != 2 {
		t.Fatalf("expected both enqueued messages delivered once c1 checked out, got %d", len(adapter.Deliveries))
	}

	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 committed entries, got %d", len(entries))
	}
	if entries[0].Index != 1 || entries[1].Index != 2 {
		t.Fatalf("expected entries to carry their assigned indices, got %+v", entries)
	}
}
