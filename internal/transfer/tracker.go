package transfer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pavelc4/gofile-relay-bot/pkg/logger"
)

const (
	DownloadInterval = 2 * time.Second
	UploadInterval   = 1 * time.Second

	// SimulatedUploadRate is the speed shown while uploading. The GoFile
	// upload is a single opaque request, so upload progress is estimated
	// rather than measured.
	SimulatedUploadRate = 5 * 1024 * 1024

	renderTimeout = 5 * time.Second
)

type Option func(*Tracker)

func WithClock(c Clock) Option {
	return func(t *Tracker) {
		if c != nil {
			t.clock = c
		}
	}
}

// WithInterval overrides the render throttle.
func WithInterval(d time.Duration) Option {
	return func(t *Tracker) {
		t.interval = d
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// Tracker counts bytes for one transfer and renders throttled progress.
type Tracker struct {
	mu          sync.Mutex
	kind        Kind
	userID      int64
	filename    string
	total       int64
	transferred int64
	start       time.Time
	lastRender  time.Time
	state       State

	interval time.Duration
	registry *Registry
	sink     Sink
	clock    Clock
	log      *slog.Logger
}

func NewDownload(userID int64, filename string, total int64, reg *Registry, sink Sink, opts ...Option) *Tracker {
	return newTracker(KindDownload, DownloadInterval, userID, filename, total, reg, sink, opts)
}

func NewUpload(userID int64, filename string, total int64, reg *Registry, sink Sink, opts ...Option) *Tracker {
	return newTracker(KindUpload, UploadInterval, userID, filename, total, reg, sink, opts)
}

func newTracker(kind Kind, interval time.Duration, userID int64, filename string, total int64, reg *Registry, sink Sink, opts []Option) *Tracker {
	if total < 0 {
		total = 0
	}
	t := &Tracker{
		kind:     kind,
		userID:   userID,
		filename: filename,
		total:    total,
		interval: interval,
		registry: reg,
		sink:     sink,
		clock:    SystemClock,
		log:      logger.Log,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.start = t.clock.Now()
	t.log = t.log.With("user", userID, "kind", kind.String())
	return t
}

func (t *Tracker) Kind() Kind       { return t.kind }
func (t *Tracker) UserID() int64    { return t.userID }
func (t *Tracker) Filename() string { return t.filename }

// SetTotal fills in a size learned once the transfer started. A known
// size is kept.
func (t *Tracker) SetTotal(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.total == 0 && n > 0 {
		t.total = max(n, t.transferred)
	}
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Update records delta transferred bytes. It returns Abort when the
// operation was cancelled, either now or earlier.
func (t *Tracker) Update(ctx context.Context, delta int64) Step {
	t.mu.Lock()
	switch t.state {
	case StateCancelled:
		t.mu.Unlock()
		return Abort
	case StateCompleted, StateFailed:
		t.mu.Unlock()
		return Continue
	}
	t.mu.Unlock()

	if t.registry != nil && t.registry.cancelledFor(t.userID, t) {
		if err := t.Cancel(ctx); err != nil {
			t.log.Debug("Cancel after flag", "error", err)
		}
		return Abort
	}

	t.mu.Lock()
	if delta > 0 {
		t.transferred += delta
		// The announced size was an estimate; never report more than 100%.
		if t.total > 0 && t.transferred > t.total {
			t.total = t.transferred
		}
	}

	now := t.clock.Now()
	done := delta > 0 && t.total > 0 && t.transferred >= t.total
	if now.Sub(t.lastRender) < t.interval && !done {
		t.mu.Unlock()
		return Continue
	}
	t.lastRender = now
	v := t.progressView(t.snapshot(now))
	t.mu.Unlock()

	t.send(ctx, v)
	return Continue
}

// Render sends the current progress view regardless of the throttle.
func (t *Tracker) Render(ctx context.Context) {
	t.mu.Lock()
	if t.state.Terminal() {
		t.mu.Unlock()
		return
	}
	now := t.clock.Now()
	t.lastRender = now
	v := t.progressView(t.snapshot(now))
	t.mu.Unlock()

	t.send(ctx, v)
}

// Complete finishes the transfer, drops the registry entry and renders the
// completed view without controls.
func (t *Tracker) Complete(ctx context.Context) error {
	p, err := t.finish(StateCompleted)
	if err != nil {
		return err
	}
	t.log.Info("Transfer completed", "file", t.filename, "bytes", p.Transferred, "elapsed", p.Elapsed.Round(time.Millisecond))
	t.send(ctx, completedView(p))
	return nil
}

// Cancel stops the transfer, drops the registry entry and renders the
// cancelled view.
func (t *Tracker) Cancel(ctx context.Context) error {
	p, err := t.finish(StateCancelled)
	if err != nil {
		return err
	}
	t.log.Info("Transfer cancelled", "file", t.filename, "bytes", p.Transferred)
	t.send(ctx, cancelledView(p))
	return nil
}

// Fail marks the transfer failed and drops the registry entry. The caller
// renders the error.
func (t *Tracker) Fail(cause error) error {
	if _, err := t.finish(StateFailed); err != nil {
		return err
	}
	t.log.Warn("Transfer failed", "file", t.filename, "error", cause)
	return nil
}

func (t *Tracker) finish(state State) (Progress, error) {
	t.mu.Lock()
	if t.state.Terminal() {
		t.mu.Unlock()
		return Progress{}, ErrTerminal
	}
	t.state = state
	p := t.snapshot(t.clock.Now())
	t.mu.Unlock()

	if t.registry != nil {
		t.registry.release(t.userID, t)
	}
	return p, nil
}

func (t *Tracker) Snapshot() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot(t.clock.Now())
}

// snapshot must be called with t.mu held.
func (t *Tracker) snapshot(now time.Time) Progress {
	p := Progress{
		Kind:        t.kind,
		State:       t.state,
		Filename:    t.filename,
		Total:       t.total,
		Transferred: t.transferred,
		Elapsed:     now.Sub(t.start),
	}
	if t.total > 0 {
		p.Percentage = float64(t.transferred) / float64(t.total) * 100
	}

	switch t.kind {
	case KindUpload:
		p.Speed = SimulatedUploadRate
	default:
		if secs := p.Elapsed.Seconds(); secs > 0 && t.transferred > 0 {
			p.Speed = float64(t.transferred) / secs
		}
	}
	if p.Speed > 0 && t.total > t.transferred {
		p.ETA = float64(t.total-t.transferred) / p.Speed
	}
	return p
}

func (t *Tracker) progressView(p Progress) View {
	return View{
		Text:    progressText(p),
		Buttons: []Button{CancelButton(t.userID)},
	}
}

// send pushes v to the sink. Failures never abort the transfer.
func (t *Tracker) send(ctx context.Context, v View) {
	if t.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()
	if err := t.sink.Edit(ctx, v); err != nil {
		t.log.Debug("Progress render dropped", "error", err)
	}
}
