package fifo

import "github.com/quorumq/quorumq/pkg/fifo/index"

// Snapshot is the shadow copy taken every ShadowCopyInterval enqueues
// and whenever a release cursor is emitted: a reduced
// representation of State that is semantically equivalent to replaying
// the log from this point on, but carries no messages of its own.
//
// It keeps customer identities (so a replica that starts from a
// snapshot still knows who to monitor and what credit they hold) but
// clears every checked-out delivery, since a delivery is only
// meaningful paired with the log entry that produced it, and that
// entry is exactly what the snapshot lets the log discard.
type Snapshot[C comparable] struct {
	Name         string
	Customers    map[C]*Customer[C]
	EnqueueCount int
}

// ShadowCopy captures s's current customer set into a Snapshot,
// emptying each customer's checked-out set in the copy. The live
// state s is left untouched.
func (s *State[C]) ShadowCopy() *Snapshot[C] {
	customers := make(map[C]*Customer[C], len(s.Customers))
	for id, c := range s.Customers {
		customers[id] = &Customer[C]{
			ID:         c.ID,
			Lifetime:   c.Lifetime,
			Num:        c.Num,
			CheckedOut: make(map[MessageID]Delivery),
			NextMsgID:  c.NextMsgID,
			Seen:       c.Seen,
		}
	}
	return &Snapshot[C]{
		Name:         s.Name,
		Customers:    customers,
		EnqueueCount: s.EnqueueCount,
	}
}

// FromSnapshot reconstructs a runnable State from a prior Snapshot: an
// empty queue (no messages, no index entries, no low water marks)
// carrying forward the customer bookkeeping the snapshot preserved.
// This is what a replica that joins from a compacted log starts from.
func FromSnapshot[C comparable](snap *Snapshot[C]) *State[C] {
	s := &State[C]{
		Name:         snap.Name,
		Messages:     make(map[LogIndex]any),
		Idx:          index.New[*Snapshot[C]](),
		Customers:    snap.Customers,
		EnqueueCount: snap.EnqueueCount,
	}
	for _, c := range s.Customers {
		if !c.drained() {
			s.ensureOnServiceQueue(c)
		}
	}
	return s
}
