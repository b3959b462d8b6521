package check

import (
	"context"
	"fmt"
	"time"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/AlekseyChudov/rscheck/pkg/probe"
	"github.com/AlekseyChudov/rscheck/pkg/status"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Runner supervises one probe on a fixed cadence and publishes its outcomes
// into the result store.
type Runner struct {
	name          string
	probe         probe.Probe
	interval      time.Duration
	timeout       time.Duration
	errorMessage  bool
	statusMessage bool
	store         *status.Store
}

func NewRunner(name string, p probe.Probe, cfg *config.Thread, store *status.Store) *Runner {
	return &Runner{
		name:          name,
		probe:         p,
		interval:      cfg.Interval.Unwrap(),
		timeout:       cfg.Timeout.Unwrap(),
		errorMessage:  cfg.ErrorMessageEnabled(),
		statusMessage: cfg.StatusMessageEnabled(),
		store:         store,
	}
}

// Run executes the check until ctx is cancelled. The interval is measured
// between cycles, not fixed-rate, so a single check never overlaps itself.
func (r *Runner) Run(ctx context.Context) {
	log.WithFields(log.Fields{"kind": "check", "name": r.name}).Info("starting check")

	for {
		r.store.Update(r.name, r.cycle(ctx))

		select {
		case <-ctx.Done():
			return
		case <-time.After(r.interval):
		}
	}
}

func (r *Runner) cycle(ctx context.Context) status.Outcome {
	message, err := r.exec(ctx)
	if err != nil {
		log.WithFields(log.Fields{"kind": "check", "name": r.name}).Error(err)

		if !r.errorMessage {
			return status.Error("")
		}
		return status.Error(fmt.Sprintf("%s error: %s", r.name, err))
	}

	if !r.statusMessage {
		message = ""
	}
	return status.OK(message)
}

// exec runs one probe invocation, converting panics into errors so that a
// buggy probe cannot take the loop down.
func (r *Runner) exec(ctx context.Context) (message string, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = errors.Errorf("probe panic: %v", v)
		}
	}()

	execCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.probe.Exec(execCtx)
}
