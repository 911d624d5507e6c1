package transfer

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrBusy is returned by Register when the user already has an active transfer.
	ErrBusy = errors.New("transfer: another transfer is already running")
	// ErrCancelled is returned by copy loops once the user cancelled the transfer.
	ErrCancelled = errors.New("transfer: cancelled by user")
	// ErrNotOwner is returned when a user tries to cancel someone else's transfer.
	ErrNotOwner = errors.New("transfer: operation belongs to another user")
	// ErrNoOperation is returned when there is nothing to cancel.
	ErrNoOperation = errors.New("transfer: no active operation")
	// ErrTerminal is returned when a finished tracker is asked to finish again.
	ErrTerminal = errors.New("transfer: tracker already finished")
)

type Kind int

const (
	KindDownload Kind = iota
	KindUpload
)

func (k Kind) String() string {
	switch k {
	case KindDownload:
		return "download"
	case KindUpload:
		return "upload"
	default:
		return "unknown"
	}
}

type State int

const (
	StateActive State = iota
	StateCompleted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are allowed.
func (s State) Terminal() bool {
	return s != StateActive
}

// Step is the outcome of processing one chunk.
type Step int

const (
	Continue Step = iota
	Abort
)

// Err maps Abort to ErrCancelled.
func (s Step) Err() error {
	if s == Abort {
		return ErrCancelled
	}
	return nil
}

// Button is an inline control. Data is delivered back as callback data.
type Button struct {
	Text string
	Data string
}

// View is one rendered progress message. Text is Telegram HTML.
type View struct {
	Text    string
	Buttons []Button
}

// Sink edits the chat message bound to a tracker.
type Sink interface {
	Edit(ctx context.Context, v View) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, v View) error

func (f SinkFunc) Edit(ctx context.Context, v View) error {
	return f(ctx, v)
}

// Clock abstracts time so throttling and pauses can be tested deterministically.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Progress is a point-in-time copy of a tracker's counters.
type Progress struct {
	Kind        Kind
	State       State
	Filename    string
	Total       int64
	Transferred int64
	Percentage  float64
	Elapsed     time.Duration
	Speed       float64 // bytes per second
	ETA         float64 // seconds
}
