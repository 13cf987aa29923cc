package realtime

import "testing"

func recv(t *testing.T, v *Viewer) Event {
	t.Helper()
	select {
	case ev := <-v.Events():
		return ev
	default:
		t.Fatal("expected a buffered event")
		return Event{}
	}
}

func TestBroadcastReachesAllViewers(t *testing.T) {
	h := NewHub()
	a := h.Attach()
	b := h.Attach()

	h.Broadcast("newFoodItem", 1)

	for _, v := range []*Viewer{a, b} {
		ev := recv(t, v)
		if ev.Name != "newFoodItem" || ev.Payload != 1 {
			t.Errorf("viewer %s got %+v", v.ID, ev)
		}
	}
}

func TestLateViewerMissesEarlierEvents(t *testing.T) {
	h := NewHub()
	a := h.Attach()
	h.Broadcast("orderDeleted", 7)

	late := h.Attach()
	select {
	case ev := <-late.Events():
		t.Errorf("late viewer should see nothing, got %+v", ev)
	default:
	}
	if ev := recv(t, a); ev.Name != "orderDeleted" {
		t.Errorf("early viewer got %+v", ev)
	}
}

func TestDetachStopsDelivery(t *testing.T) {
	h := NewHub()
	v := h.Attach()
	h.Detach(v)

	if h.Count() != 0 {
		t.Fatalf("Count = %d after detach", h.Count())
	}
	select {
	case <-v.Done():
	default:
		t.Error("Done should be closed after detach")
	}

	h.Broadcast("orderUpdated", nil)
	select {
	case ev := <-v.Events():
		t.Errorf("detached viewer got %+v", ev)
	default:
	}

	// A second detach must be harmless.
	h.Detach(v)
}

func TestFullBufferDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub()
	v := h.Attach()

	for i := 0; i < viewerBuffer; i++ {
		if ok := v.Send("newOrder", i); !ok {
			t.Fatalf("send %d dropped before buffer was full", i)
		}
	}
	if ok := v.Send("newOrder", viewerBuffer); ok {
		t.Error("send into a full buffer should report a drop")
	}
	// Broadcast to the stuck viewer must return rather than block.
	h.Broadcast("newOrder", viewerBuffer+1)

	if ev := recv(t, v); ev.Payload != 0 {
		t.Errorf("first buffered event = %+v, want payload 0", ev)
	}
}
