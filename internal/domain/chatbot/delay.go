package chatbot

import (
	"context"
	"math/rand/v2"
	"time"
)

// humanDelay picks how long to wait before sending a reply so the bot does
// not answer instantly. The base grows with reply length and gets a little
// jitter, clamped to the configured window.
func humanDelay(cfg Config, reply string) time.Duration {
	min := cfg.HumanDelayMin
	max := cfg.HumanDelayMax
	if min < 0 {
		min = 0
	}
	if max < min {
		min, max = max, min
	}
	if max <= 0 {
		return 0
	}

	byLength := 800*time.Millisecond + time.Duration(len(reply))*45*time.Millisecond
	if byLength < min {
		byLength = min
	}
	if byLength > max {
		byLength = max
	}
	jitter := time.Duration(rand.IntN(500)) * time.Millisecond
	if byLength+jitter > max {
		return max
	}
	return byLength + jitter
}

// wait sleeps for d unless the context ends first.
func wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
