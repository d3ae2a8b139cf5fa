package fifo

import "testing"

func drainSendEffects(effects []Effect) []SendMsgEffect[string] {
	var out []SendMsgEffect[string]
	for _, e := range effects {
		if se, ok := e.(SendMsgEffect[string]); ok {
			out = append(out, se)
		}
	}
	return out
}

func TestEnqueueThenCheckoutDeliversInFIFOOrder(t *testing.T) {
	s, _ := Init[string]("orders")

	s.Apply(1, EnqueueCommand{Message: "a"})
	s.Apply(2, EnqueueCommand{Message: "b"})

	effects := s.Apply(3, CheckoutCommand[string]{CustomerID: "c1", Lifetime: Once, Num: 2})
	sent := drainSendEffects(effects)

	if len(sent) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(sent))
	}
	if sent[0].Message != "a" || sent[1].Message != "b" {
		t.Fatalf("expected FIFO order a,b; got %v,%v", sent[0].Message, sent[1].Message)
	}
	if sent[0].MsgID != 0 || sent[1].MsgID != 1 {
		t.Fatalf("expected MsgIDs 0,1; got %d,%d", sent[0].MsgID, sent[1].MsgID)
	}

	c, ok := s.Customers["c1"]
	if !ok {
		t.Fatalf("customer c1 should still exist with outstanding deliveries")
	}
	if len(c.CheckedOut) != 2 {
		t.Fatalf("expected 2 checked out, got %d", len(c.CheckedOut))
	}
	if s.LowIndex != nil {
		t.Fatalf("expected low_index nil once all messages assigned, got %v", *s.LowIndex)
	}
}

func TestReleaseCursorEmitsNothingOnEmptyQueue(t *testing.T) {
	s, _ := Init[string]("orders")
	effects := s.Apply(1, CheckoutCommand[string]{CustomerID: "c1", Lifetime: Auto, Num: 1})

	for _, e := range effects {
		if _, ok := e.(ReleaseCursorEffect[string]); ok {
			t.Fatalf("did not expect a release cursor effect against an empty queue")
		}
	}
	if s.LowIndex != nil {
		t.Fatalf("expected low_index nil on empty queue")
	}
}

func TestCheckoutBeforeEnqueueIsServedOnArrival(t *testing.T) {
	s, _ := Init[string]("orders")

	effects := s.Apply(1, CheckoutCommand[string]{CustomerID: "c1", Lifetime: Once, Num: 1})
	if len(drainSendEffects(effects)) != 0 {
		t.Fatalf("expected no deliveries before any message exists")
	}

	effects = s.Apply(2, EnqueueCommand{Message: "a"})
	sent := drainSendEffects(effects)
	if len(sent) != 1 || sent[0].Message != "a" {
		t.Fatalf("expected the enqueue to satisfy the waiting customer, got %v", sent)
	}
}

func TestDownReturnsCheckedOutMessages(t *testing.T) {
	s, _ := Init[string]("orders")
	s.Apply(1, EnqueueCommand{Message: "a"})
	s.Apply(2, EnqueueCommand{Message: "b"})
	s.Apply(3, CheckoutCommand[string]{CustomerID: "c1", Lifetime: Auto, Num: 2})

	if len(s.Customers["c1"].CheckedOut) != 2 {
		t.Fatalf("expected c1 to hold both messages before going down")
	}

	effects := s.Apply(4, DownCommand[string]{CustomerID: "c1"})

	foundDemonitor := false
	for _, e := range effects {
		if d, ok := e.(DemonitorEffect[string]); ok && d.CustomerID == "c1" {
			foundDemonitor = true
		}
	}
	if !foundDemonitor {
		t.Fatalf("expected a demonitor effect for the downed customer")
	}
	if _, exists := s.Customers["c1"]; exists {
		t.Fatalf("expected c1 to be removed after going down")
	}
	if len(s.Messages) != 2 {
		t.Fatalf("expected both messages returned to the queue, got %d", len(s.Messages))
	}
	if s.LowIndex == nil || *s.LowIndex != 1 {
		t.Fatalf("expected low_index to rewind to 1, got %v", s.LowIndex)
	}
}

func TestOnceCustomerIsRemovedAfterSettlingAllCredit(t *testing.T) {
	s, _ := Init[string]("orders")
	s.Apply(1, EnqueueCommand{Message: "a"})
	s.Apply(2, CheckoutCommand[string]{CustomerID: "c1", Lifetime: Once, Num: 1})

	if _, ok := s.Customers["c1"]; !ok {
		t.Fatalf("expected c1 to still be tracked with an outstanding delivery")
	}

	effects := s.Apply(3, SettleCommand[string]{CustomerID: "c1", MsgID: 0})

	if _, ok := s.Customers["c1"]; ok {
		t.Fatalf("expected c1 to be removed once its once-credit is fully settled")
	}
	foundDemonitor := false
	for _, e := range effects {
		if d, ok := e.(DemonitorEffect[string]); ok && d.CustomerID == "c1" {
			foundDemonitor = true
		}
	}
	if !foundDemonitor {
		t.Fatalf("expected a demonitor effect once c1 drains")
	}
}

func TestDuplicateSettleIsANoOp(t *testing.T) {
	s, _ := Init[string]("orders")
	s.Apply(1, EnqueueCommand{Message: "a"})
	s.Apply(2, CheckoutCommand[string]{CustomerID: "c1", Lifetime: Auto, Num: 1})

	s.Apply(3, SettleCommand[string]{CustomerID: "c1", MsgID: 0})
	before := len(s.Messages)

	effects := s.Apply(4, SettleCommand[string]{CustomerID: "c1", MsgID: 0})
	if len(effects) != 0 {
		t.Fatalf("expected a duplicate settle to produce no effects, got %v", effects)
	}
	if len(s.Messages) != before {
		t.Fatalf("expected a duplicate settle to leave messages untouched")
	}
}

func TestAutoCustomerKeepsRequestingCredit(t *testing.T) {
	s, _ := Init[string]("orders")
	s.Apply(1, CheckoutCommand[string]{CustomerID: "c1", Lifetime: Auto, Num: 1})

	effects := s.Apply(2, EnqueueCommand{Message: "a"})
	sent := drainSendEffects(effects)
	if len(sent) != 1 {
		t.Fatalf("expected delivery of first message")
	}

	effects = s.Apply(3, EnqueueCommand{Message: "b"})
	sent = drainSendEffects(effects)
	if len(sent) != 0 {
		t.Fatalf("expected no delivery of second message while credit is exhausted, got %v", sent)
	}

	effects = s.Apply(4, SettleCommand[string]{CustomerID: "c1", MsgID: 0})
	sent = drainSendEffects(effects)
	if len(sent) != 1 || sent[0].Message != "b" {
		t.Fatalf("expected settling to free credit and deliver the second message, got %v", sent)
	}
}

func TestShadowCopyTakenEveryIntervalAndReleaseCursorFollowsSettle(t *testing.T) {
	s, _ := Init[string]("orders")

	var logIndex LogIndex = 1
	for i := 0; i < ShadowCopyInterval; i++ {
		s.Apply(logIndex, EnqueueCommand{Message: i})
		logIndex++
	}

	shadowKey := LogIndex(ShadowCopyInterval)
	snap, ok := s.Idx.Get(shadowKey)
	if !ok || snap == nil {
		t.Fatalf("expected a shadow copy stored at index %d", shadowKey)
	}

	s.Apply(logIndex, CheckoutCommand[string]{CustomerID: "c1", Lifetime: Auto, Num: ShadowCopyInterval})
	logIndex++

	var releaseEffects []ReleaseCursorEffect[string]
	for msgID := MessageID(0); msgID < ShadowCopyInterval-1; msgID++ {
		effects := s.Apply(logIndex, SettleCommand[string]{CustomerID: "c1", MsgID: msgID})
		logIndex++
		for _, e := range effects {
			if rc, ok := e.(ReleaseCursorEffect[string]); ok {
				releaseEffects = append(releaseEffects, rc)
			}
		}
	}

	if len(releaseEffects) == 0 {
		t.Fatalf("expected at least one release cursor effect once the shadowed index became the smallest surviving entry")
	}
	last := releaseEffects[len(releaseEffects)-1]
	if last.LogIndex != shadowKey-1 {
		t.Fatalf("expected release cursor at %d, got %d", shadowKey-1, last.LogIndex)
	}
	if last.Snapshot == nil {
		t.Fatalf("expected the release cursor to carry the shadow snapshot")
	}
}
