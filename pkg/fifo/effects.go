package fifo

// Effect is a descriptor of a side-effecting action Apply wants its
// host to perform. Effects are values, not side effects: Apply never
// executes one itself, it only appends to the slice it returns. A
// closed set of concrete types implements Effect so callers can
// exhaustively type-switch instead of relying on open dispatch.
type Effect interface {
	isEffect()
}

// MonitorEffect asks the host to watch the liveness of a customer's
// endpoint.
type MonitorEffect[C comparable] struct {
	CustomerID C
}

func (MonitorEffect[C]) isEffect() {}

// DemonitorEffect asks the host to stop watching a customer's
// endpoint.
type DemonitorEffect[C comparable] struct {
	CustomerID C
}

func (DemonitorEffect[C]) isEffect() {}

// SendMsgEffect asks the host to deliver a message to a customer.
type SendMsgEffect[C comparable] struct {
	CustomerID C
	MsgID      MessageID
	Message    any
}

func (SendMsgEffect[C]) isEffect() {}

// MetricsDelta carries the four counters tracked for a queue:
// enqueues, checkouts, settlements, returns.
type MetricsDelta struct {
	Enqueues    uint64
	Checkouts   uint64
	Settlements uint64
	Returns     uint64
}

// IncrMetricsEffect asks the host to atomically add Delta's fields to
// the named counters table.
type IncrMetricsEffect struct {
	Table string
	Delta MetricsDelta
}

func (IncrMetricsEffect) isEffect() {}

// ReleaseCursorEffect authorizes the host's consensus log to compact
// everything up to and including LogIndex, because Snapshot captures
// an equivalent reduction of state from that point on.
type ReleaseCursorEffect[C comparable] struct {
	LogIndex LogIndex
	Snapshot *Snapshot[C]
}

func (ReleaseCursorEffect[C]) isEffect() {}
