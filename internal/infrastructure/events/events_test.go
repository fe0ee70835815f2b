package events

import (
	"testing"
)

func TestBus_PublishReachesSubscriberSynchronously(t *testing.T) {
	b := New()

	var got int
	if err := b.Subscribe("counter", func(n int) { got = n }); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	b.Publish("counter", 42)
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestBus_NestedPublishIsDeliveredAfterCurrentHandlers(t *testing.T) {
	b := New()

	var order []string
	if err := b.Subscribe("outer", func() {
		order = append(order, "outer-start")
		b.Publish("inner")
		order = append(order, "outer-end")
	}); err != nil {
		t.Fatalf("subscribe outer: %v", err)
	}
	if err := b.Subscribe("inner", func() {
		order = append(order, "inner")
	}); err != nil {
		t.Fatalf("subscribe inner: %v", err)
	}

	b.Publish("outer")

	want := []string{"outer-start", "outer-end", "inner"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestBus_NestedPublishChainKeepsFIFOOrder(t *testing.T) {
	b := New()

	var order []string
	if err := b.Subscribe("a", func() {
		order = append(order, "a")
		b.Publish("b")
		b.Publish("c")
	}); err != nil {
		t.Fatalf("subscribe a: %v", err)
	}
	if err := b.Subscribe("b", func() {
		order = append(order, "b")
		b.Publish("d")
	}); err != nil {
		t.Fatalf("subscribe b: %v", err)
	}
	if err := b.Subscribe("c", func() { order = append(order, "c") }); err != nil {
		t.Fatalf("subscribe c: %v", err)
	}
	if err := b.Subscribe("d", func() { order = append(order, "d") }); err != nil {
		t.Fatalf("subscribe d: %v", err)
	}

	b.Publish("a")

	want := []string{"a", "b", "c", "d"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	b := New()

	calls := 0
	handler := func() { calls++ }
	if err := b.Subscribe("ping", handler); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	b.Publish("ping")
	if err := b.Unsubscribe("ping", handler); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	b.Publish("ping")

	if calls != 1 {
		t.Fatalf("got %d calls, want 1", calls)
	}
}
