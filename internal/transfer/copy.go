package transfer

import (
	"context"
	"io"
	"time"
)

// Copy streams src into dst one buffer at a time and reports every chunk
// to t. It stops with ErrCancelled once the user cancels, and with the
// context error when ctx ends.
func Copy(ctx context.Context, dst io.Writer, src io.Reader, t *Tracker, buf []byte) (int64, error) {
	if len(buf) == 0 {
		buf = make([]byte, 32*1024)
	}

	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			wn, err := dst.Write(buf[:n])
			written += int64(wn)
			if err != nil {
				return written, err
			}
			if wn != n {
				return written, io.ErrShortWrite
			}
			if t.Update(ctx, int64(n)) == Abort {
				return written, ErrCancelled
			}
		}

		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}

type progressWriter struct {
	ctx     context.Context
	w       io.Writer
	t       *Tracker
	aborted bool
}

// Writer wraps w so every successful write is reported to t. Once the
// transfer is cancelled all writes fail with ErrCancelled.
func (t *Tracker) Writer(ctx context.Context, w io.Writer) io.Writer {
	return &progressWriter{ctx: ctx, w: w, t: t}
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	if pw.aborted {
		return 0, ErrCancelled
	}

	n, err := pw.w.Write(p)
	if n > 0 && pw.t.Update(pw.ctx, int64(n)) == Abort {
		pw.aborted = true
		return n, ErrCancelled
	}
	return n, err
}

// SimulateUpload drives an upload tracker through steps equal increments
// of its total size, pausing between steps. The real upload is a single
// request with no observable progress, so this is what the user sees
// before it starts. The last step carries the remainder so the tracker
// ends at exactly 100%.
func SimulateUpload(ctx context.Context, t *Tracker, steps int, pause time.Duration) Step {
	if steps <= 0 {
		steps = 1
	}

	t.Render(ctx)

	t.mu.Lock()
	total := t.total
	clock := t.clock
	t.mu.Unlock()

	chunk := total / int64(steps)
	for i := 0; i < steps; i++ {
		delta := chunk
		if i == steps-1 {
			delta = total - t.Snapshot().Transferred
		}
		if t.Update(ctx, delta) == Abort {
			return Abort
		}
		if err := clock.Sleep(ctx, pause); err != nil {
			return Abort
		}
	}
	return Continue
}
