// Package memory implements host.Host entirely in process memory, for
// tests and single-node demos. It is adapted from the shape of
// pkg/concurrency/distlock's in-memory adapter: a mutex-guarded map
// standing in for the real backend.
package memory

import (
	"context"
	"sync"

	"github.com/quorumq/quorumq/pkg/fifo"
)

// Delivery is one message handed to SendMessage, recorded so a test
// can assert on what was delivered.
type Delivery struct {
	CustomerID any
	MsgID      fifo.MessageID
	Message    any
}

// Adapter implements host.Host[C] by recording every call instead of
// talking to a real backend.
type Adapter[C comparable] struct {
	mu sync.Mutex

	Monitored   map[C]bool
	Metrics     map[string]fifo.MetricsDelta
	Deliveries  []Delivery
	Released    []ReleasedCursor[C]
}

// ReleasedCursor records one ReleaseCursor call.
type ReleasedCursor[C comparable] struct {
	LogIndex fifo.LogIndex
	Snapshot *fifo.Snapshot[C]
}

// New returns an empty Adapter ready to back a host.Executor.
func New[C comparable]() *Adapter[C] {
	return &Adapter[C]{
		Monitored: make(map[C]bool),
		Metrics:   make(map[string]fifo.MetricsDelta),
	}
}

func (a *Adapter[C]) Monitor(_ context.Context, customerID C) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Monitored[customerID] = true
	return nil
}

func (a *Adapter[C]) Demonitor(_ context.Context, customerID C) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.Monitored, customerID)
	return nil
}

func (a *Adapter[C]) SendMessage(_ context.Context, customerID C, msgID fifo.MessageID, message any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Deliveries = append(a.Deliveries, Delivery{CustomerID: customerID, MsgID: msgID, Message: message})
	return nil
}

func (a *Adapter[C]) IncrMetrics(_ context.Context, table string, delta fifo.MetricsDelta) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	cur := a.Metrics[table]
	cur.Enqueues += delta.Enqueues
	cur.Checkouts += delta.Checkouts
	cur.Settlements += delta.Settlements
	cur.Returns += delta.Returns
	a.Metrics[table] = cur
	return nil
}

func (a *Adapter[C]) ReleaseCursor(_ context.Context, logIndex fifo.LogIndex, snap *fifo.Snapshot[C]) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Released = append(a.Released, ReleasedCursor[C]{LogIndex: logIndex, Snapshot: snap})
	return nil
}
