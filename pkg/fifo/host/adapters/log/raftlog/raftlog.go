// Package raftlog is a single-node, in-memory log source for demos
// and tests. It is NOT a Raft implementation: it borrows only the
// LogEntry vocabulary visible in pkg/algorithms/consensus/raft's
// surviving test file (that package's actual consensus logic was not
// available to adapt from). It assigns LogIndex values sequentially
// and applies them directly; it does not replicate, elect a leader,
// or tolerate a crash. A real deployment replaces this package with a
// genuine Raft-family log and drives fifo.State.Apply from its commit
// stream instead.
package raftlog

import (
	"context"
	"sync"

	"github.com/quorumq/quorumq/pkg/fifo"
	"github.com/quorumq/quorumq/pkg/fifo/host"
)

// LogEntry is one committed entry: the index it was assigned and the
// command it carries.
type LogEntry[C comparable] struct {
	Index   fifo.LogIndex
	Command fifo.Command[C]
}

// Log sequences commands against a fifo.State and runs their effects
// through an Executor, standing in for "append to the consensus log,
// wait for commit, then apply" in a single process.
type Log[C comparable] struct {
	mu       sync.Mutex
	state    *fifo.State[C]
	executor *host.Executor[C]
	entries  []LogEntry[C]
	next     fifo.LogIndex
}

// New starts a Log at index 1 over state, dispatching every applied
// command's effects through executor.
func New[C comparable](state *fifo.State[C], executor *host.Executor[C]) *Log[C] {
	return &Log[C]{state: state, executor: executor, next: 1}
}

// Propose assigns the next LogIndex to cmd, applies it, and runs the
// resulting effects through the bound Executor before returning the
// index it was committed at.
func (l *Log[C]) Propose(ctx context.Context, cmd fifo.Command[C]) (fifo.LogIndex, error) {
	l.mu.Lock()
	index := l.next
	l.next++
	l.entries = append(l.entries, LogEntry[C]{Index: index, Command: cmd})
	effects := l.state.Apply(index, cmd)
	l.mu.Unlock()

	if err := l.executor.Run(ctx, effects); err != nil {
		return index, err
	}
	return index, nil
}

// Entries returns every entry committed so far, in index order.
func (l *Log[C]) Entries() []LogEntry[C] {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry[C], len(l.entries))
	copy(out, l.entries)
	return out
}
