// Package relay moves one file from a Source to GoFile: download into a
// private work directory, show upload progress, upload, clean up.
package relay

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/pavelc4/gofile-relay-bot/internal/gofile"
	"github.com/pavelc4/gofile-relay-bot/internal/stats"
	"github.com/pavelc4/gofile-relay-bot/internal/transfer"
	"github.com/pavelc4/gofile-relay-bot/pkg/logger"
)

// ErrInsufficientSpace is returned when the work directory's filesystem
// cannot hold the announced file.
var ErrInsufficientSpace = errors.New("not enough free disk space")

const fallbackName = "file"

// Uploader is the hosting side of a relay.
type Uploader interface {
	Upload(ctx context.Context, path, token, folderID string) (*gofile.File, error)
}

// Job describes a single relay request.
type Job struct {
	UserID   int64
	Source   Source
	Token    string
	FolderID string
	// Sink receives the progress views; usually the bot's status message.
	Sink transfer.Sink
}

// Result is what a finished relay produced.
type Result struct {
	File *gofile.File
	Name string
	Size int64
}

type Config struct {
	WorkDir         string
	UploadSteps     int
	UploadStepPause time.Duration
}

type Option func(*Relay)

// WithClock drives every tracker the relay creates.
func WithClock(c transfer.Clock) Option {
	return func(r *Relay) {
		r.clock = c
	}
}

// WithFreeSpace replaces the disk check. Passing nil disables it.
func WithFreeSpace(fn func(path string) (uint64, error)) Option {
	return func(r *Relay) {
		r.freeSpace = fn
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Relay) {
		if l != nil {
			r.log = l
		}
	}
}

func WithLimiter(l *Limiter) Option {
	return func(r *Relay) {
		r.limiter = l
	}
}

type Relay struct {
	cfg       Config
	registry  *transfer.Registry
	uploader  Uploader
	limiter   *Limiter
	clock     transfer.Clock
	freeSpace func(path string) (uint64, error)
	log       *slog.Logger
}

func New(reg *transfer.Registry, up Uploader, cfg Config, opts ...Option) *Relay {
	r := &Relay{
		cfg:       cfg,
		registry:  reg,
		uploader:  up,
		clock:     transfer.SystemClock,
		freeSpace: stats.FreeSpace,
		log:       logger.Log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Limiter returns the concurrency limiter, or nil when relays are unbounded.
func (r *Relay) Limiter() *Limiter {
	return r.limiter
}

// Run performs the relay. It returns transfer.ErrBusy when the user already
// has a transfer, transfer.ErrCancelled when the user cancelled it, and the
// underlying error otherwise. The user's registry entry is held from the
// first step to the last, and the work directory is gone when Run returns.
func (r *Relay) Run(ctx context.Context, job Job) (*Result, error) {
	if err := r.registry.Reserve(job.UserID, transfer.KindDownload); err != nil {
		return nil, err
	}
	// held is whichever tracker currently owns the entry.
	var held *transfer.Tracker
	defer func() {
		r.registry.Release(job.UserID, held)
	}()

	if r.limiter != nil {
		if err := r.limiter.Acquire(ctx); err != nil {
			return nil, err
		}
		defer r.limiter.Release()
	}

	log := r.log.With("user", job.UserID)

	name, size, err := job.Source.Describe(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "describe source")
	}
	name = safeName(name)

	dir := filepath.Join(r.cfg.WorkDir, uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create work dir")
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn("Failed to remove work dir", "dir", dir, "error", err)
		}
	}()

	if err := r.checkSpace(dir, size); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, name)
	start := time.Now()

	dl := transfer.NewDownload(job.UserID, name, size, r.registry, job.Sink, r.trackerOpts()...)
	if err := r.registry.Handoff(job.UserID, transfer.KindDownload, nil, dl); err != nil {
		return nil, err
	}
	held = dl

	if err := r.download(ctx, job, path, dl); err != nil {
		return nil, err
	}
	logger.InfoWithDuration("Download finished", start, "user", job.UserID, "file", name)

	fi, err := os.Stat(path)
	if err != nil {
		_ = dl.Fail(err)
		return nil, errors.Wrap(err, "stat download")
	}

	up := transfer.NewUpload(job.UserID, name, fi.Size(), r.registry, job.Sink, r.trackerOpts()...)
	if err := r.registry.Handoff(job.UserID, transfer.KindUpload, dl, up); err != nil {
		_ = dl.Fail(err)
		return nil, err
	}
	held = up
	// The entry now belongs to up, so completing dl leaves it in place.
	_ = dl.Complete(ctx)

	file, err := r.upload(ctx, job, path, up)
	if err != nil {
		return nil, err
	}
	logger.InfoWithDuration("Relay finished", start, "user", job.UserID, "file", name, "size", fi.Size())

	return &Result{File: file, Name: name, Size: fi.Size()}, nil
}

func (r *Relay) trackerOpts() []transfer.Option {
	return []transfer.Option{transfer.WithClock(r.clock), transfer.WithLogger(r.log)}
}

// download fills path. On success t is left active for the caller to
// hand over to the upload.
func (r *Relay) download(ctx context.Context, job Job, path string, t *transfer.Tracker) error {
	t.Render(ctx)
	// A cancel that arrived while the source was being described.
	if t.Update(ctx, 0) == transfer.Abort {
		return transfer.ErrCancelled
	}

	f, err := os.Create(path)
	if err != nil {
		_ = t.Fail(err)
		return errors.Wrap(err, "create file")
	}

	fetchErr := job.Source.Fetch(ctx, f, t)
	closeErr := f.Close()

	if t.State() == transfer.StateCancelled {
		return transfer.ErrCancelled
	}
	if fetchErr == nil {
		fetchErr = closeErr
	}
	if fetchErr != nil {
		_ = t.Fail(fetchErr)
		return errors.Wrap(fetchErr, "download")
	}
	return nil
}

func (r *Relay) upload(ctx context.Context, job Job, path string, t *transfer.Tracker) (*gofile.File, error) {
	if transfer.SimulateUpload(ctx, t, r.cfg.UploadSteps, r.cfg.UploadStepPause) == transfer.Abort {
		if t.State() == transfer.StateCancelled {
			return nil, transfer.ErrCancelled
		}
		err := ctx.Err()
		if err == nil {
			err = transfer.ErrCancelled
		}
		_ = t.Fail(err)
		return nil, err
	}

	file, err := r.uploader.Upload(ctx, path, job.Token, job.FolderID)
	if err != nil {
		_ = t.Fail(err)
		return nil, errors.Wrap(err, "upload")
	}

	// A cancel flagged during the request itself comes too late; the file
	// is already hosted.
	_ = t.Complete(ctx)
	return file, nil
}

func (r *Relay) checkSpace(dir string, size int64) error {
	if r.freeSpace == nil || size <= 0 {
		return nil
	}
	free, err := r.freeSpace(dir)
	if err != nil {
		r.log.Debug("Disk usage unavailable", "dir", dir, "error", err)
		return nil
	}
	if uint64(size) > free {
		return errors.Wrapf(ErrInsufficientSpace, "need %d bytes, have %d", size, free)
	}
	return nil
}

// safeName keeps only the final path element so a hostile name cannot
// escape the work directory.
func safeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." || name == "" {
		return fallbackName
	}
	return name
}
