package handler

import (
	"context"
	"fmt"
	"html"

	"github.com/gotd/td/tg"

	sentryutil "github.com/pavelc4/gofile-relay-bot/internal/sentry"
	"github.com/pavelc4/gofile-relay-bot/internal/telegram"
	"github.com/pavelc4/gofile-relay-bot/pkg/logger"
)

// Deleter removes hosted content.
type Deleter interface {
	Delete(ctx context.Context, token, contentID string) error
}

type DeleteHandler struct {
	client  *telegram.Client
	deleter Deleter
}

func NewDeleteHandler(cli *telegram.Client, d Deleter) *DeleteHandler {
	return &DeleteHandler{client: cli, deleter: d}
}

func (h *DeleteHandler) Handle(ctx context.Context, e tg.Entities, msg *tg.Message) error {
	peer, err := telegram.ResolvePeer(msg.PeerID, e)
	if err != nil {
		return fmt.Errorf("failed to resolve peer: %w", err)
	}

	_, err = h.client.ReplyHTML(ctx, peer, msg.ID, h.run(ctx, msg.Message), nil)
	return err
}

// run performs the delete and returns the reply text.
func (h *DeleteHandler) run(ctx context.Context, text string) string {
	args, err := parseDeleteArgs(text)
	if err != nil {
		return errorText(err)
	}

	if err := h.deleter.Delete(ctx, args.Token, args.ContentID); err != nil {
		logger.Warn("Delete failed", "content", args.ContentID, "error", err)
		sentryutil.CaptureError(err, map[string]string{"op": "delete"})
		return errorText(err)
	}

	logger.Info("Content deleted", "content", args.ContentID)
	return fmt.Sprintf("<b>Deleted</b> ✓\n\n<b>Content ID:</b> <code>%s</code>", html.EscapeString(args.ContentID))
}
