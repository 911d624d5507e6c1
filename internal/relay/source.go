package relay

import (
	"context"
	"io"

	"github.com/go-faster/errors"

	"github.com/pavelc4/gofile-relay-bot/internal/transfer"
	"github.com/pavelc4/gofile-relay-bot/pkg/buffer"
	httpx "github.com/pavelc4/gofile-relay-bot/pkg/http"
	"github.com/pavelc4/gofile-relay-bot/pkg/logger"
)

// Source is where a relay gets its bytes from.
type Source interface {
	// Describe returns the file name and its size, or 0 if unknown.
	Describe(ctx context.Context) (name string, size int64, err error)
	// Fetch writes the content to dst, reporting progress to t.
	Fetch(ctx context.Context, dst io.Writer, t *transfer.Tracker) error
}

// URLSource downloads a plain HTTP(S) link.
type URLSource struct {
	client *httpx.Client
	url    string
	pool   *buffer.Pool
}

func NewURLSource(client *httpx.Client, url string, pool *buffer.Pool) *URLSource {
	if pool == nil {
		pool = buffer.Default
	}
	return &URLSource{client: client, url: url, pool: pool}
}

// Describe asks the server with HEAD. Servers that refuse HEAD still get a
// name from the URL and an unknown size; the GET will surface real errors.
func (s *URLSource) Describe(ctx context.Context) (string, int64, error) {
	info, err := s.client.Head(ctx, s.url)
	if err != nil {
		if ctx.Err() != nil {
			return "", 0, ctx.Err()
		}
		logger.Debug("HEAD failed, size unknown", "url", s.url, "error", err)
		return httpx.FilenameFromURL(s.url), 0, nil
	}
	return info.Filename, info.Size, nil
}

func (s *URLSource) Fetch(ctx context.Context, dst io.Writer, t *transfer.Tracker) error {
	body, info, err := s.client.StreamRequest(ctx, s.url, nil)
	if err != nil {
		return errors.Wrap(err, "get")
	}
	defer body.Close()

	// Only fills in a size that HEAD could not provide.
	t.SetTotal(info.Size)

	buf := s.pool.Get()
	defer s.pool.Put(buf)

	_, err = transfer.Copy(ctx, dst, body, t, buf)
	return err
}
