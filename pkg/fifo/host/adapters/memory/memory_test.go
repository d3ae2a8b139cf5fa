package memory

import (
	"context"
	"testing"

	"github.com/quorumq/quorumq/pkg/fifo"
	"github.com/quorumq/quorumq/pkg/fifo/host"
	"github.com/stretchr/testify/require"
)

func TestExecutorDispatchesEffectsToAdapter(t *testing.T) {
	ctx := context.Background()
	adapter := New[string]()
	executor := host.NewExecutor[string](adapter)

	state, initEffects := fifo.Init[string]("orders")
	require.NoError(t, executor.Run(ctx, initEffects))

	effects := state.Apply(1, fifo.CheckoutCommand[string]{CustomerID: "c1", Lifetime: fifo.Auto, Num: 1})
	require.NoError(t, executor.Run(ctx, effects))
	require.True(t, adapter.Monitored["c1"])

	effects = state.Apply(2, fifo.EnqueueCommand{Message: "hello"})
	require.NoError(t, executor.Run(ctx, effects))

	require.Len(t, adapter.Deliveries, 1)
	require.Equal(t, "hello", adapter.Deliveries[0].Message)
	require.Equal(t, uint64(1), adapter.Metrics["orders"].Enqueues)
	require.Equal(t, uint64(1), adapter.Metrics["orders"].Checkouts)
}
