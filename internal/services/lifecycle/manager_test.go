package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestShutdownRunsHooksInReverseOrder(t *testing.T) {
	m := New(time.Second, nil)

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		m.Register(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	want := []string{"third", "second", "first"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestShutdownContinuesPastFailingHook(t *testing.T) {
	m := New(time.Second, nil)

	var ran []string
	m.Register("healthy", func(ctx context.Context) error {
		ran = append(ran, "healthy")
		return nil
	})
	hookErr := errors.New("flush failed")
	m.Register("broken", func(ctx context.Context) error {
		ran = append(ran, "broken")
		return hookErr
	})

	err := m.Shutdown(context.Background())
	if !errors.Is(err, hookErr) {
		t.Errorf("Shutdown error = %v, want to wrap %v", err, hookErr)
	}
	if len(ran) != 2 {
		t.Errorf("ran = %v, want both hooks despite the failure", ran)
	}
}

func TestRegisterIgnoresNilHook(t *testing.T) {
	m := New(time.Second, nil)
	m.Register("noop", nil)

	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
