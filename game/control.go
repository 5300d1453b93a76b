package game

import (
	"context"
	"time"
)

// Control is the loop state owned by the input collaborator. It is passed
// into every step and handed back, never stored globally.
type Control struct {
	Paused  bool
	Fast    bool
	Heatmap bool
	Quit    bool
}

// InputSource updates the control state between steps.
type InputSource interface {
	Poll(ctl Control) Control
}

// InputFunc adapts a function to InputSource.
type InputFunc func(Control) Control

func (f InputFunc) Poll(ctl Control) Control {
	return f(ctl)
}

// defaultPausePoll is how often a paused loop re-polls its input.
const defaultPausePoll = 100 * time.Millisecond

// awaitInput polls input once and, while paused, keeps polling until the
// loop is resumed, quit or cancelled.
func awaitInput(ctx context.Context, in InputSource, ctl Control, interval time.Duration) (Control, error) {
	if in == nil {
		return ctl, nil
	}
	if interval <= 0 {
		interval = defaultPausePoll
	}

	ctl = in.Poll(ctl)
	for ctl.Paused && !ctl.Quit {
		if err := sleepContext(ctx, interval); err != nil {
			return ctl, err
		}
		ctl = in.Poll(ctl)
	}
	return ctl, nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
