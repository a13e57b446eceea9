// Package utils
package utils

import (
	"testing"
	"time"
)

func TestBoundedPushFront(t *testing.T) {
	var history []int
	for i := 1; i <= 8; i++ {
		history = BoundedPushFront(history, i, 6)
	}
	expected := []int{8, 7, 6, 5, 4, 3}
	if len(history) != len(expected) {
		t.Fatalf("BoundedPushFront length = %d; expected %d", len(history), len(expected))
	}
	for i, v := range expected {
		if history[i] != v {
			t.Errorf("history[%d] = %d; expected %d", i, history[i], v)
		}
	}
}

func TestReverseForEach(t *testing.T) {
	order := make([]int, 0, 3)
	ReverseForEach([]string{"a", "b", "c"}, func(index int, _ string) {
		order = append(order, index)
	})
	if len(order) != 3 || order[0] != 2 || order[2] != 0 {
		t.Errorf("ReverseForEach visited %v; expected [2 1 0]", order)
	}
}

func TestOverflowTrigger(t *testing.T) {
	fired := 0
	trigger := NewOverflowTrigger(25, func() { fired++ })
	overflows := 0
	for i := 0; i < 100; i++ {
		if trigger.Tick() {
			overflows++
		}
	}
	if fired != 4 || overflows != 4 {
		t.Errorf("OverflowTrigger fired %d times (%d overflows); expected 4", fired, overflows)
	}
	trigger.Reset()
	for i := 0; i < 24; i++ {
		trigger.Tick()
	}
	if fired != 4 {
		t.Errorf("OverflowTrigger fired after reset before target, got %d", fired)
	}

	if NewOverflowTrigger(0, func() { fired++ }).Tick() {
		t.Error("OverflowTrigger with zero limit should never fire")
	}
}

func TestCachedValue(t *testing.T) {
	loads := 0
	cached := NewCachedValue(0, func() *int {
		loads++
		value := loads * 10
		return &value
	})
	if *cached.GetValue() != 10 || *cached.GetValue() != 10 || loads != 1 {
		t.Fatalf("CachedValue without ttl should load once, loads = %d", loads)
	}
	cached.Invalidate()
	if *cached.GetValue() != 20 {
		t.Errorf("CachedValue should reload after Invalidate")
	}

	expiring := NewCachedValue(time.Minute, func() *int {
		loads++
		return &loads
	})
	elapsed := time.Duration(0)
	expiring.timeSince = func(time.Time) time.Duration { return elapsed }
	first := *expiring.GetValue()
	elapsed = 2 * time.Minute
	if second := *expiring.GetValue(); second == first {
		t.Errorf("CachedValue should reload after ttl, got %d twice", second)
	}
}
