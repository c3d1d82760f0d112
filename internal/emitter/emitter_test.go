package emitter

import "testing"

func TestEmitDeliversInSubscriptionOrder(t *testing.T) {
	var e Emitter[int]
	var got []int
	e.Subscribe(func(v int) { got = append(got, v*10) })
	e.Subscribe(func(v int) { got = append(got, v*100) })

	e.Emit(7)

	if len(got) != 2 || got[0] != 70 || got[1] != 700 {
		t.Errorf("Emit delivered %v, want [70 700]", got)
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	var e Emitter[string]
	calls := 0
	sub := e.Subscribe(func(string) { calls++ })

	e.Emit("a")
	sub.Cancel()
	e.Emit("b")

	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
	if e.Len() != 0 {
		t.Errorf("Len() = %d after cancel, want 0", e.Len())
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	var e Emitter[int]
	keep := e.Subscribe(func(int) {})
	sub := e.Subscribe(func(int) {})

	sub.Cancel()
	sub.Cancel()

	if e.Len() != 1 {
		t.Errorf("Len() = %d after double cancel, want 1", e.Len())
	}
	_ = keep
}

func TestCancelDuringEmitSkipsHandler(t *testing.T) {
	var e Emitter[int]
	calls := 0
	var second interface{ Cancel() }
	e.Subscribe(func(int) { second.Cancel() })
	second = e.Subscribe(func(int) { calls++ })

	e.Emit(1)

	if calls != 0 {
		t.Errorf("cancelled handler ran %d times, want 0", calls)
	}
}

func TestSubscribeDuringEmitMissesCurrentValue(t *testing.T) {
	var e Emitter[int]
	lateCalls := 0
	e.Subscribe(func(int) {
		e.Subscribe(func(int) { lateCalls++ })
	})

	e.Emit(1)
	if lateCalls != 0 {
		t.Errorf("late handler saw the emit that registered it")
	}

	e.Emit(2)
	if lateCalls != 1 {
		t.Errorf("late handler called %d times after second emit, want 1", lateCalls)
	}
}
