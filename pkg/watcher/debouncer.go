package watcher

import (
	"context"
	"time"

	"github.com/everse/unified-api/pkg/logging"
)

// Debouncer coalesces bursts of change events so a multi-file cache refresh
// triggers one regeneration. An event is released after quietPeriod without
// further input, or after maxWait from the first accumulated event.
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a debouncer over an event channel.
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 4),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins debouncing in the background.
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Debouncer) run(ctx context.Context) {
	var accumulated []string

	quiet := time.NewTimer(time.Hour)
	quiet.Stop()
	maxWait := time.NewTimer(time.Hour)
	maxWait.Stop()

	flush := func() {
		if len(accumulated) == 0 {
			return
		}
		logging.Debug("flushing accumulated changes", "count", len(accumulated))
		d.output <- ChangeEvent{Paths: accumulated, Timestamp: time.Now()}
		accumulated = nil
		quiet.Stop()
		maxWait.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			close(d.output)
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				close(d.output)
				return
			}
			if len(accumulated) == 0 {
				maxWait.Reset(d.maxWait)
			}
			accumulated = append(accumulated, event.Paths...)
			quiet.Reset(d.quietPeriod)

		case <-quiet.C:
			flush()

		case <-maxWait.C:
			flush()
		}
	}
}

// Output returns the channel of debounced events.
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}
