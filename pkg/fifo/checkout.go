package fifo

// registerCustomer creates or updates a customer's subscription. A
// customer seen for the first time is monitored; one that
// already exists has its lifetime/credit replaced. Either way the
// customer is queued for service if it has fewer than Num deliveries
// outstanding and is not already waiting.
func (s *State[C]) registerCustomer(id C, lifetime Lifetime, num int) []Effect {
	c, exists := s.Customers[id]
	var effects []Effect
	if !exists {
		c = newCustomer(id, lifetime, num)
		s.Customers[id] = c
		effects = append(effects, MonitorEffect[C]{CustomerID: id})
	} else {
		c.Lifetime = lifetime
		c.Num = num
	}
	if len(c.CheckedOut) < c.Num {
		s.ensureOnServiceQueue(c)
	}
	return effects
}

// runCheckoutEngine repeatedly pairs the oldest unassigned message
// with the customer at the head of the service queue. It stops as soon
// as either side runs out, so it is safe to call
// after every command that could have changed either: enqueue,
// checkout, settle, return, and down.
func (s *State[C]) runCheckoutEngine() []Effect {
	var effects []Effect

	for {
		if s.LowIndex == nil {
			break
		}
		id, ok := s.serviceQueue.dequeue()
		if !ok {
			break
		}
		c, ok := s.Customers[id]
		if !ok {
			// Customer was removed after being queued but before its
			// turn; drop the stale entry and keep going.
			continue
		}
		c.onServiceQueue = false

		logIndex := *s.LowIndex
		message := s.Messages[logIndex]
		delete(s.Messages, logIndex)

		msgID := c.NextMsgID
		c.NextMsgID++
		c.Seen++
		c.CheckedOut[msgID] = Delivery{LogIndex: logIndex, Message: message}

		effects = append(effects, SendMsgEffect[C]{CustomerID: id, MsgID: msgID, Message: message})
		effects = append(effects, IncrMetricsEffect{Table: s.Name, Delta: MetricsDelta{Checkouts: 1}})

		s.recomputeLowIndex()

		effects = append(effects, s.applySubscriptionPolicy(c)...)
	}

	return effects
}

// applySubscriptionPolicy decides whether a customer stays subscribed,
// rejoins the service queue, or is removed entirely after a delivery
// or acknowledgement.
func (s *State[C]) applySubscriptionPolicy(c *Customer[C]) []Effect {
	switch c.Lifetime {
	case Once:
		if c.Seen == uint64(c.Num) {
			if len(c.CheckedOut) == 0 {
				delete(s.Customers, c.ID)
				return []Effect{DemonitorEffect[C]{CustomerID: c.ID}}
			}
			// Drained but still has outstanding deliveries; keep the
			// record, do not rejoin the service queue.
			return nil
		}
		s.ensureOnServiceQueue(c)
		return nil
	case Auto:
		if len(c.CheckedOut) < c.Num {
			s.ensureOnServiceQueue(c)
		}
		return nil
	default:
		return nil
	}
}
