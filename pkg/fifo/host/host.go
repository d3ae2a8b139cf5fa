package host

import (
	"context"

	"github.com/quorumq/quorumq/pkg/fifo"
)

// Host is the set of collaborators a running queue replica needs from
// its surrounding system in order to execute the effects its state
// machine emits. A deployment implements Host once per backend choice
// (see the adapters sub-packages) and wires it to an Executor.
type Host[C comparable] interface {
	// Monitor begins watching the liveness of a customer's endpoint.
	// The host is expected to later apply a fifo.DownCommand for that
	// customer if it observes the endpoint disappear.
	Monitor(ctx context.Context, customerID C) error

	// Demonitor stops watching a customer's endpoint.
	Demonitor(ctx context.Context, customerID C) error

	// SendMessage delivers a checked-out message to a customer.
	SendMessage(ctx context.Context, customerID C, msgID fifo.MessageID, message any) error

	// IncrMetrics atomically applies a metrics delta to the named
	// queue's counters.
	IncrMetrics(ctx context.Context, table string, delta fifo.MetricsDelta) error

	// ReleaseCursor authorizes the consensus log to discard every
	// entry up to and including logIndex, because snap reconstructs an
	// equivalent state from that point forward.
	ReleaseCursor(ctx context.Context, logIndex fifo.LogIndex, snap *fifo.Snapshot[C]) error
}

// Executor applies a batch of effects, in order, against a Host. It
// is the only place effect dispatch happens: Apply itself never calls
// out to the host, it only returns values for an Executor to consume.
type Executor[C comparable] struct {
	Host Host[C]
}

// NewExecutor builds an Executor bound to h.
func NewExecutor[C comparable](h Host[C]) *Executor[C] {
	return &Executor[C]{Host: h}
}

// Run dispatches each effect to the bound Host in order, stopping and
// returning the first error encountered. Effects after the failing one
// are not executed; the caller decides whether to retry the whole
// batch or treat the state machine's output as partially applied.
func (e *Executor[C]) Run(ctx context.Context, effects []fifo.Effect) error {
	for _, eff := range effects {
		if err := e.dispatch(ctx, eff); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor[C]) dispatch(ctx context.Context, eff fifo.Effect) error {
	switch v := eff.(type) {
	case fifo.MonitorEffect[C]:
		return e.Host.Monitor(ctx, v.CustomerID)
	case fifo.DemonitorEffect[C]:
		return e.Host.Demonitor(ctx, v.CustomerID)
	case fifo.SendMsgEffect[C]:
		return e.Host.SendMessage(ctx, v.CustomerID, v.MsgID, v.Message)
	case fifo.IncrMetricsEffect:
		return e.Host.IncrMetrics(ctx, v.Table, v.Delta)
	case fifo.ReleaseCursorEffect[C]:
		return e.Host.ReleaseCursor(ctx, v.LogIndex, v.Snapshot)
	default:
		return nil
	}
}
