package fifo

import "testing"

// TestFromSnapshotReconstructsQueryableState replays a Snapshot taken
// mid-stream and checks the reconstructed State behaves the same as
// the live one for everything that survives compaction: customer
// credit, outstanding deliveries are gone (they belong to the log the
// snapshot lets the host discard), and a drained Once customer is kept
// but not served again.
func TestFromSnapshotReconstructsQueryableState(t *testing.T) {
	s, _ := Init[string]("orders")

	s.Apply(1, EnqueueCommand{Message: "a"})
	s.Apply(2, EnqueueCommand{Message: "b"})
	s.Apply(3, CheckoutCommand[string]{CustomerID: "auto", Lifetime: Auto, Num: 1})
	s.Apply(4, CheckoutCommand[string]{CustomerID: "once", Lifetime: Once, Num: 1})

	snap := s.ShadowCopy()

	if len(snap.Customers) != 2 {
		t.Fatalf("expected both customers captured, got %d", len(snap.Customers))
	}
	for id, c := range snap.Customers {
		if len(c.CheckedOut) != 0 {
			t.Fatalf("expected %s's checked-out set cleared in the shadow, got %d", id, len(c.CheckedOut))
		}
	}

	restored := FromSnapshot(snap)

	if len(restored.Messages) != 0 {
		t.Fatalf("expected a restored state to carry no messages of its own, got %d", len(restored.Messages))
	}
	if restored.Idx.Len() != 0 {
		t.Fatalf("expected a restored state's index to start empty, got %d entries", restored.Idx.Len())
	}
	if len(restored.Customers) != 2 {
		t.Fatalf("expected both customers to survive restoration, got %d", len(restored.Customers))
	}

	auto := restored.Customers["auto"]
	if auto.Lifetime != Auto || auto.Num != 1 || auto.NextMsgID != 1 {
		t.Fatalf("expected auto's credit/sequencing preserved, got %+v", auto)
	}

	effects := restored.Apply(101, EnqueueCommand{Message: "c"})
	sent := drainSendEffects(effects)
	if len(sent) != 1 || sent[0].CustomerID != "auto" || sent[0].Message != "c" {
		t.Fatalf("expected the restored auto customer to still be queued for delivery, got %v", sent)
	}
	if sent[0].MsgID != 1 {
		t.Fatalf("expected delivery sequencing to continue from NextMsgID, got %d", sent[0].MsgID)
	}
}

// TestFromSnapshotDropsFullyDrainedOnceCustomers checks that a Once
// customer with nothing outstanding at snapshot time is not re-queued
// for service on restoration, matching its live behavior.
func TestFromSnapshotDropsFullyDrainedOnceCustomers(t *testing.T) {
	s, _ := Init[string]("orders")
	s.Apply(1, EnqueueCommand{Message: "a"})
	s.Apply(2, CheckoutCommand[string]{CustomerID: "once", Lifetime: Once, Num: 1})
	s.Apply(3, SettleCommand[string]{CustomerID: "once", MsgID: 0})

	if _, ok := s.Customers["once"]; ok {
		t.Fatalf("expected the drained once customer to already be gone from the live state")
	}

	snap := s.ShadowCopy()
	restored := FromSnapshot(snap)
	if _, ok := restored.Customers["once"]; ok {
		t.Fatalf("expected the drained once customer to stay gone across a snapshot round-trip")
	}
}
