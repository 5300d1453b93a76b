package game

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAwaitInput_NilSource(t *testing.T) {
	ctl := Control{Fast: true}
	got, err := awaitInput(context.Background(), nil, ctl, 0)
	if err != nil || got != ctl {
		t.Errorf("awaitInput(nil) = %+v, %v", got, err)
	}
}

func TestAwaitInput_CancelWhilePaused(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	polls := 0
	in := InputFunc(func(c Control) Control {
		polls++
		if polls == 2 {
			cancel()
		}
		c.Paused = true
		return c
	})

	_, err := awaitInput(ctx, in, Control{}, time.Millisecond)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestAwaitInput_QuitWhilePaused(t *testing.T) {
	in := InputFunc(func(c Control) Control {
		if c.Paused {
			c.Quit = true
		}
		c.Paused = true
		return c
	})

	got, err := awaitInput(context.Background(), in, Control{}, time.Millisecond)
	if err != nil {
		t.Fatalf("awaitInput: %v", err)
	}
	if !got.Quit {
		t.Errorf("control = %+v, want quit", got)
	}
}

func TestSleepContext(t *testing.T) {
	if err := sleepContext(context.Background(), 0); err != nil {
		t.Errorf("zero sleep: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled sleep = %v", err)
	}
}
