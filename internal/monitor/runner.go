package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/LanskovSergei/bubble-proxy/internal/snapshot"
)

// Prober executes one health check attempt.
type Prober interface {
	Check(ctx context.Context) Outcome
}

// Alerter receives debounced transitions. Implementations must never block
// the loop for long and their failures must not propagate; delivery is
// best-effort by contract.
type Alerter interface {
	NotifyDown(ctx context.Context, statusCode int, errMsg string, responseTime time.Duration)
	NotifyRecovered(ctx context.Context, downtime time.Duration)
}

// Runner drives probe -> state machine -> alerter on a fixed interval. The
// interval is slept after each iteration completes, so the actual cadence
// drifts by probe latency.
type Runner struct {
	target   string
	url      string
	probe    Prober
	state    *StateMachine
	alerter  Alerter // nil disables notifications
	interval time.Duration
	log      *zap.Logger
}

func NewRunner(target, url string, probe Prober, state *StateMachine, alerter Alerter, interval time.Duration, log *zap.Logger) *Runner {
	return &Runner{
		target:   target,
		url:      url,
		probe:    probe,
		state:    state,
		alerter:  alerter,
		interval: interval,
		log:      log,
	}
}

// Run loops until ctx is cancelled and then returns ctx.Err(). A failure of
// any single iteration is logged and never stops the loop; cancellation is
// observed between iterations.
func (r *Runner) Run(ctx context.Context) error {
	r.log.Info("starting monitor",
		zap.String("target", r.target),
		zap.Duration("interval", r.interval),
		zap.Int("failure_threshold", r.state.FailureThreshold()),
		zap.Int("recovery_threshold", r.state.RecoveryThreshold()),
	)

	for {
		r.iterate(ctx)

		timer := time.NewTimer(r.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// iterate performs one tick: probe, fold into the state machine, notify on a
// transition, publish the status snapshot. Panics are contained here so a
// broken iteration cannot kill future ticks.
func (r *Runner) iterate(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("monitoring iteration panicked", zap.Any("panic", rec))
		}
	}()

	out := r.probe.Check(ctx)
	tr := r.state.Apply(out)

	if out.Success {
		r.log.Info("check passed",
			zap.Int("status", out.StatusCode),
			zap.Duration("response_time", out.ResponseTime),
		)
	} else {
		r.log.Warn("check failed",
			zap.String("error", out.Error),
			zap.Int("consecutive", r.state.ConsecutiveFailures()),
			zap.Int("threshold", r.state.FailureThreshold()),
		)
	}

	switch tr.Kind {
	case TransitionDown:
		r.log.Error("service DOWN", zap.String("target", r.target), zap.String("error", tr.Error))
		if r.alerter != nil {
			r.alerter.NotifyDown(ctx, tr.StatusCode, tr.Error, tr.ResponseTime)
		}
	case TransitionRecovered:
		r.log.Info("service recovered",
			zap.String("target", r.target),
			zap.Duration("downtime", tr.Downtime),
		)
		if r.alerter != nil {
			r.alerter.NotifyRecovered(ctx, tr.Downtime)
		}
	}

	r.publish(out)
}

func (r *Runner) publish(out Outcome) {
	st := snapshot.Status{
		Target:             r.target,
		URL:                r.url,
		Up:                 !r.state.Down(),
		LastChecked:        out.Timestamp.UTC().Format(time.RFC3339),
		LatencyMs:          out.ResponseTime.Milliseconds(),
		StatusCode:         out.StatusCode,
		LastError:          out.Error,
		ConsecutiveSuccess: r.state.ConsecutiveSuccesses(),
		ConsecutiveFail:    r.state.ConsecutiveFailures(),
		TotalChecks:        r.state.TotalChecks(),
		TotalFails:         r.state.TotalFails(),
	}
	if r.state.Down() {
		st.DownSince = r.state.DowntimeStart().UTC().Format(time.RFC3339)
	}
	snapshot.Publish(st)
}
