package event

import (
	"errors"
	"sync"
	"testing"
)

func TestProxyDrainKeepsSendOrder(t *testing.T) {
	p := NewProxy[int]()
	for i := 0; i < 5; i++ {
		if err := p.Send(i); err != nil {
			t.Fatalf("Send(%d) failed: %v", i, err)
		}
	}

	got := p.Drain()
	if len(got) != 5 {
		t.Fatalf("Expected 5 payloads, got %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Errorf("Expected payload %d at index %d, got %d", i, i, v)
		}
	}

	if again := p.Drain(); again != nil {
		t.Errorf("Expected empty drain after draining, got %v", again)
	}
}

func TestProxySendAfterClose(t *testing.T) {
	p := NewProxy[string]()
	_ = p.Send("queued")
	p.Close()

	err := p.Send("late")
	if !errors.Is(err, ErrLoopClosed) {
		t.Fatalf("Expected ErrLoopClosed, got %v", err)
	}
	if !p.Closed() {
		t.Error("Expected proxy to report closed")
	}
	if got := p.Drain(); got != nil {
		t.Errorf("Expected queued payloads to be dropped on close, got %v", got)
	}
}

func TestProxyConcurrentSend(t *testing.T) {
	p := NewProxy[int]()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = p.Send(i)
			}
		}()
	}
	wg.Wait()

	if got := len(p.Drain()); got != 800 {
		t.Errorf("Expected 800 payloads, got %d", got)
	}
}

func TestModifiersState(t *testing.T) {
	m := ModShift | ModAlt
	if !m.Shift() || !m.Alt() {
		t.Error("Expected shift and alt to be set")
	}
	if m.Ctrl() || m.Logo() {
		t.Error("Expected ctrl and logo to be clear")
	}
}

func TestForceNormalized(t *testing.T) {
	if got := (Force{Value: 2, Max: 4}).Normalized(); got != 0.5 {
		t.Errorf("Expected 0.5, got %v", got)
	}
	if got := (Force{Value: 2}).Normalized(); got != 0 {
		t.Errorf("Expected 0 without a max, got %v", got)
	}
}
