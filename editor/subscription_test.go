package editor

import "testing"

func TestSubscriptionReleasesOnce(t *testing.T) {
	calls := 0
	sub := NewSubscription(func() { calls++ })
	sub.Close()
	sub.Close()
	if calls != 1 {
		t.Fatalf("release called %d times, want 1", calls)
	}

	var none *Subscription
	none.Close()
}

func TestSubscriptionsCloseInReverseOrder(t *testing.T) {
	var order []int
	var g Subscriptions
	for i := 1; i <= 3; i++ {
		i := i
		g.Add(NewSubscription(func() { order = append(order, i) }))
	}
	g.Close()
	g.Close()
	if len(order) != 3 || order[0] != 3 || order[2] != 1 {
		t.Fatalf("order = %v, want [3 2 1]", order)
	}
}
