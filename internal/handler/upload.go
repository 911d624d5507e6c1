package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/gotd/td/tg"

	"github.com/pavelc4/gofile-relay-bot/internal/relay"
	sentryutil "github.com/pavelc4/gofile-relay-bot/internal/sentry"
	"github.com/pavelc4/gofile-relay-bot/internal/stats"
	"github.com/pavelc4/gofile-relay-bot/internal/telegram"
	"github.com/pavelc4/gofile-relay-bot/internal/transfer"
	"github.com/pavelc4/gofile-relay-bot/pkg/buffer"
	httpx "github.com/pavelc4/gofile-relay-bot/pkg/http"
	"github.com/pavelc4/gofile-relay-bot/pkg/logger"
)

type UploadHandler struct {
	client      *telegram.Client
	relay       *relay.Relay
	registry    *transfer.Registry
	stats       *stats.BotStats
	http        *httpx.Client
	pool        *buffer.Pool
	feedbackURL string
}

type UploadDeps struct {
	Client      *telegram.Client
	Relay       *relay.Relay
	Registry    *transfer.Registry
	Stats       *stats.BotStats
	HTTP        *httpx.Client
	Pool        *buffer.Pool
	FeedbackURL string
}

func NewUploadHandler(d UploadDeps) *UploadHandler {
	return &UploadHandler{
		client:      d.Client,
		relay:       d.Relay,
		registry:    d.Registry,
		stats:       d.Stats,
		http:        d.HTTP,
		pool:        d.Pool,
		feedbackURL: d.FeedbackURL,
	}
}

func (h *UploadHandler) Handle(ctx context.Context, e tg.Entities, msg *tg.Message) error {
	peer, err := telegram.ResolvePeer(msg.PeerID, e)
	if err != nil {
		return fmt.Errorf("failed to resolve peer: %w", err)
	}
	userID := telegram.SenderID(msg)

	status, err := h.client.ReplyHTML(ctx, peer, msg.ID, "<code>Processing...</code>", nil)
	if err != nil {
		return err
	}
	fail := func(err error) error {
		if editErr := status.EditHTML(ctx, errorText(err), nil); editErr != nil {
			logger.Error("Failed to edit message", "msg_id", status.ID(), "error", editErr)
		}
		return nil
	}

	replyTo, isReply := telegram.ReplyToID(msg)
	args, err := parseUploadArgs(msg.Message, isReply)
	if err != nil {
		return fail(err)
	}

	if _, busy := h.registry.Get(userID); busy {
		return fail(transfer.ErrBusy)
	}

	var src relay.Source
	if args.URL != "" {
		_ = status.EditHTML(ctx, "<code>Getting file information...</code>", nil)
		src = relay.NewURLSource(h.http, args.URL, h.pool)
	} else {
		target, err := telegram.FetchMessage(ctx, h.client.API(), peer, replyTo)
		if err != nil {
			logger.Warn("Replied message lookup failed", "user", userID, "error", err)
			return fail(errNoMedia)
		}
		media, err := telegram.NewMediaSource(h.client.API(), target.Media)
		if err != nil {
			return fail(errNoMedia)
		}
		src = media
	}

	logger.Info("Relay requested", "user", userID, "url", args.URL, "reply", isReply)

	res, err := h.relay.Run(ctx, relay.Job{
		UserID:   userID,
		Source:   src,
		Token:    args.Token,
		FolderID: args.FolderID,
		Sink:     status,
	})
	switch {
	case err == nil:
	case errors.Is(err, transfer.ErrCancelled):
		h.stats.RecordRelay(userID, stats.OutcomeCancelled, 0)
		return nil
	case errors.Is(err, transfer.ErrBusy):
		return fail(err)
	default:
		h.stats.RecordRelay(userID, stats.OutcomeFailed, 0)
		if ctx.Err() == nil {
			sentryutil.CaptureError(err, map[string]string{"op": "relay"})
		}
		logger.Error("Relay failed", "user", userID, "error", err)
		return fail(err)
	}

	h.stats.RecordRelay(userID, stats.OutcomeSuccess, res.Size)
	return status.EditHTML(ctx, resultText(res.File), resultKeyboard(res.File.DownloadPage, h.feedbackURL))
}
