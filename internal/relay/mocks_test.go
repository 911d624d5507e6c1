package relay

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pavelc4/gofile-relay-bot/internal/gofile"
	"github.com/pavelc4/gofile-relay-bot/internal/transfer"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
	return nil
}

// memSource serves data in fixed chunks through the tracker's writer.
type memSource struct {
	name    string
	data    []byte
	chunk   int
	err     error
	onChunk func(i int)
	// onDescribe runs while the relay is still describing the source.
	onDescribe func()

	described bool
}

func (s *memSource) Describe(context.Context) (string, int64, error) {
	s.described = true
	if s.onDescribe != nil {
		s.onDescribe()
	}
	return s.name, int64(len(s.data)), nil
}

func (s *memSource) Fetch(ctx context.Context, dst io.Writer, t *transfer.Tracker) error {
	w := t.Writer(ctx, dst)
	for i := 0; i*s.chunk < len(s.data); i++ {
		if s.onChunk != nil {
			s.onChunk(i)
		}
		end := (i + 1) * s.chunk
		if end > len(s.data) {
			end = len(s.data)
		}
		if _, err := w.Write(s.data[i*s.chunk : end]); err != nil {
			return err
		}
	}
	return s.err
}

type fakeUploader struct {
	mu      sync.Mutex
	calls   int
	content string
	token   string
	folder  string
	err     error
}

func (u *fakeUploader) Upload(_ context.Context, path, token, folderID string) (*gofile.File, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	u.token = token
	u.folder = folderID

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	u.content = string(data)

	if u.err != nil {
		return nil, u.err
	}
	return &gofile.File{Name: "x", DownloadPage: "https://gofile.io/d/abc"}, nil
}

type textSink struct {
	mu     sync.Mutex
	texts  []string
	onEdit func(text string)
}

func (s *textSink) Edit(_ context.Context, v transfer.View) error {
	s.mu.Lock()
	s.texts = append(s.texts, v.Text)
	fn := s.onEdit
	s.mu.Unlock()

	if fn != nil {
		fn(v.Text)
	}
	return nil
}

func (s *textSink) contains(subs ...string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
next:
	for _, t := range s.texts {
		for _, sub := range subs {
			if !strings.Contains(t, sub) {
				continue next
			}
		}
		return true
	}
	return false
}
