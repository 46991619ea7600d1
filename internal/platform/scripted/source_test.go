package scripted

import (
	"errors"
	"testing"
	"time"

	"tickloop/internal/event"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestSourceReplaysStepsInOrder(t *testing.T) {
	clock := NewClock(epoch)
	src := New[string](clock,
		Emit(event.NewEvents{Cause: event.StartInit}),
		Wait(100*time.Millisecond),
		Idle(),
	)

	var seen []event.Event
	var idleAt time.Time
	err := src.Run(func(ev event.Event) event.ControlFlow {
		seen = append(seen, ev)
		if _, ok := ev.(event.MainEventsCleared); ok {
			idleAt = clock.Now()
		}
		return event.Poll
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(seen) != 3 {
		t.Fatalf("Expected 3 events including LoopDestroyed, got %d", len(seen))
	}
	if _, ok := seen[2].(event.LoopDestroyed); !ok {
		t.Errorf("Expected LoopDestroyed last, got %T", seen[2])
	}
	if !idleAt.Equal(epoch.Add(100 * time.Millisecond)) {
		t.Errorf("Expected clock to advance before the idle marker, got %v", idleAt)
	}
}

func TestSourceStopsOnExit(t *testing.T) {
	src := New[string](nil,
		Emit(event.CloseRequested{Window: 1}),
		Idle(),
		Idle(),
	)

	count := 0
	_ = src.Run(func(ev event.Event) event.ControlFlow {
		count++
		return event.Exit
	})

	delivered := src.Delivered()
	if len(delivered) != 2 || count != 2 {
		t.Fatalf("Expected the first event and LoopDestroyed only, got %d", len(delivered))
	}
	if _, ok := delivered[1].(event.LoopDestroyed); !ok {
		t.Errorf("Expected LoopDestroyed after exit, got %T", delivered[1])
	}
}

func TestSourceDeliversCustomEventsAfterSender(t *testing.T) {
	src := New[string](nil, Idle(), Idle())

	var order []string
	_ = src.Run(func(ev event.Event) event.ControlFlow {
		switch e := ev.(type) {
		case event.MainEventsCleared:
			order = append(order, "idle")
			if len(order) == 1 {
				_ = src.Proxy().Send("ping")
			}
		case event.UserEvent[string]:
			order = append(order, e.Payload)
		}
		return event.Poll
	})

	want := []string{"idle", "ping", "idle"}
	if len(order) != len(want) {
		t.Fatalf("Expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, order)
			break
		}
	}
}

func TestSourceClosesProxyOnStop(t *testing.T) {
	src := New[int](nil, Idle())
	_ = src.Run(func(event.Event) event.ControlFlow { return event.Poll })

	if err := src.Proxy().Send(1); !errors.Is(err, event.ErrLoopClosed) {
		t.Errorf("Expected ErrLoopClosed after the source stopped, got %v", err)
	}
}
