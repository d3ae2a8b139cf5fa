package fifo

// Apply interprets a single log entry against s, mutating s in place
// and returning the effects the host must execute as a result. It is
// the only mutating entry point into the state machine:
// deterministic, total, and synchronous, so every replica that applies
// the same (logIndex, cmd) pairs in the same order ends up in the
// same state.
func (s *State[C]) Apply(logIndex LogIndex, cmd Command[C]) []Effect {
	switch c := cmd.(type) {
	case EnqueueCommand:
		return s.applyEnqueue(logIndex, c.Message)
	case CheckoutCommand[C]:
		return s.applyCheckout(c.CustomerID, c.Lifetime, c.Num)
	case SettleCommand[C]:
		return s.applySettle(logIndex, c.CustomerID, c.MsgID)
	case ReturnCommand[C]:
		return s.applyReturn(c.CustomerID, c.MsgID)
	case DownCommand[C]:
		return s.applyDown(c.CustomerID)
	default:
		return nil
	}
}

// applyEnqueue appends the message, extends the
// index (taking a shadow copy every ShadowCopyInterval-th entry), and
// let the checkout engine immediately try to satisfy waiting
// customers.
func (s *State[C]) applyEnqueue(logIndex LogIndex, message any) []Effect {
	s.Messages[logIndex] = message

	var snap *Snapshot[C]
	if (s.EnqueueCount+1)%ShadowCopyInterval == 0 {
		snap = s.ShadowCopy()
	}
	s.EnqueueCount++
	s.Idx.Append(logIndex, snap)

	s.touchLowIndex(logIndex)
	s.touchFirstEnqueueLogIndex(logIndex)

	effects := []Effect{IncrMetricsEffect{Table: s.Name, Delta: MetricsDelta{Enqueues: 1}}}
	return append(effects, s.runCheckoutEngine()...)
}

// applyCheckout registers or updates the
// customer's subscription, then run the checkout engine.
func (s *State[C]) applyCheckout(id C, lifetime Lifetime, num int) []Effect {
	effects := s.registerCustomer(id, lifetime, num)
	return append(effects, s.runCheckoutEngine()...)
}

// applySettle is a customer permanently
// acknowledges one of its checked-out deliveries. Settling a MsgID
// that is not currently checked out (already settled, or never
// issued) is a no-op, making settle idempotent against duplicates.
func (s *State[C]) applySettle(logIndex LogIndex, id C, msgID MessageID) []Effect {
	c, ok := s.Customers[id]
	if !ok {
		return nil
	}
	delivery, ok := c.CheckedOut[msgID]
	if !ok {
		return nil
	}
	delete(c.CheckedOut, msgID)
	s.Idx.Delete(delivery.LogIndex)

	effects := []Effect{IncrMetricsEffect{Table: s.Name, Delta: MetricsDelta{Settlements: 1}}}
	effects = append(effects, s.maybeReleaseCursor(logIndex, delivery.LogIndex)...)
	effects = append(effects, s.applySubscriptionPolicy(c)...)
	return append(effects, s.runCheckoutEngine()...)
}

// applyReturn is a customer negatively
// acknowledges a delivery, which re-enters the queue at its original
// LogIndex. The index entry is untouched; it was never removed by
// checkout, only by settle.
func (s *State[C]) applyReturn(id C, msgID MessageID) []Effect {
	c, ok := s.Customers[id]
	if !ok {
		return nil
	}
	delivery, ok := c.CheckedOut[msgID]
	if !ok {
		return nil
	}
	delete(c.CheckedOut, msgID)

	s.Messages[delivery.LogIndex] = delivery.Message
	s.touchLowIndex(delivery.LogIndex)

	effects := []Effect{IncrMetricsEffect{Table: s.Name, Delta: MetricsDelta{Returns: 1}}}
	effects = append(effects, s.applySubscriptionPolicy(c)...)
	return append(effects, s.runCheckoutEngine()...)
}

// applyDown handles a customer's endpoint going away.
// Every message it had checked out returns to the queue exactly like
// an explicit return, and the customer record itself is removed; the
// index is not touched, since none of its entries are being settled.
func (s *State[C]) applyDown(id C) []Effect {
	c, ok := s.Customers[id]
	if !ok {
		return nil
	}

	returned := len(c.CheckedOut)
	for msgID, delivery := range c.CheckedOut {
		delete(c.CheckedOut, msgID)
		s.Messages[delivery.LogIndex] = delivery.Message
		s.touchLowIndex(delivery.LogIndex)
	}
	delete(s.Customers, id)
	if c.onServiceQueue {
		kept := s.serviceQueue.items[:0]
		for _, queued := range s.serviceQueue.items {
			if queued != id {
				kept = append(kept, queued)
			}
		}
		s.serviceQueue.items = kept
	}

	effects := []Effect{
		DemonitorEffect[C]{CustomerID: id},
		IncrMetricsEffect{Table: s.Name, Delta: MetricsDelta{Returns: uint64(returned)}},
	}
	return append(effects, s.runCheckoutEngine()...)
}
