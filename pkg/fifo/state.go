package fifo

import "github.com/quorumq/quorumq/pkg/fifo/index"

// ShadowCopyInterval is how often, in enqueues, a shadow copy of state
// is produced and co-located with that enqueue's LogIndex in the
// index. It is purely a performance/granularity knob: correctness does
// not depend on its value, only tests depending on the 128 cadence do.
const ShadowCopyInterval = 128

// State is the queue state machine's full state. It is owned by
// exactly one Apply call at a time; nothing in this package
// synchronizes access.
type State[C comparable] struct {
	Name string

	Messages map[LogIndex]any
	Idx      *index.Tree[*Snapshot[C]]

	LowIndex             *LogIndex
	FirstEnqueueLogIndex *LogIndex

	Customers    map[C]*Customer[C]
	serviceQueue serviceQueue[C]

	EnqueueCount int
}

// Init creates an empty queue named name and announces a metrics row
// for it.
func Init[C comparable](name string) (*State[C], []Effect) {
	s := &State[C]{
		Name:      name,
		Messages:  make(map[LogIndex]any),
		Idx:       index.New[*Snapshot[C]](),
		Customers: make(map[C]*Customer[C]),
	}
	return s, []Effect{
		IncrMetricsEffect{Table: name, Delta: MetricsDelta{}},
	}
}

// LeaderEffects returns the monitor effects a newly elected leader
// should emit so it begins observing every known customer's liveness:
// customer identities survive leader changes, but the host's liveness
// monitors do not.
func LeaderEffects[C comparable](s *State[C]) []Effect {
	effects := make([]Effect, 0, len(s.Customers))
	for id := range s.Customers {
		effects = append(effects, MonitorEffect[C]{CustomerID: id})
	}
	return effects
}

// Overview returns a read-only operator summary of s.
func Overview[C comparable](s *State[C]) OverviewInfo {
	return OverviewInfo{
		Type:         "fifo",
		NumCustomers: len(s.Customers),
		NumMessages:  len(s.Messages),
	}
}

func (s *State[C]) touchLowIndex(idx LogIndex) {
	if s.LowIndex == nil || idx < *s.LowIndex {
		v := idx
		s.LowIndex = &v
	}
}

// recomputeLowIndex scans messages for its smallest key. The index
// retains checked-out entries long after checkout removes them from
// messages, so its Successor cannot stand in for "smallest key still
// in messages": that key can belong to an entry the index considers
// present but messages no longer holds.
func (s *State[C]) recomputeLowIndex() {
	var min LogIndex
	found := false
	for k := range s.Messages {
		if !found || k < min {
			min = k
			found = true
		}
	}
	if !found {
		s.LowIndex = nil
		return
	}
	v := min
	s.LowIndex = &v
}

func (s *State[C]) touchFirstEnqueueLogIndex(idx LogIndex) {
	if s.FirstEnqueueLogIndex == nil || idx < *s.FirstEnqueueLogIndex {
		v := idx
		s.FirstEnqueueLogIndex = &v
	}
}

// ensureOnServiceQueue appends id to the service queue unless it is
// already pending there.
func (s *State[C]) ensureOnServiceQueue(c *Customer[C]) {
	if c.onServiceQueue {
		return
	}
	c.onServiceQueue = true
	s.serviceQueue.enqueue(c.ID)
}
