package handler

import (
	"context"
	"fmt"

	"github.com/gotd/td/tg"

	"github.com/pavelc4/gofile-relay-bot/internal/telegram"
	"github.com/pavelc4/gofile-relay-bot/internal/transfer"
	"github.com/pavelc4/gofile-relay-bot/pkg/logger"
)

type CallbackHandler struct {
	client   *telegram.Client
	basic    *BasicHandler
	registry *transfer.Registry
}

func NewCallbackHandler(cli *telegram.Client, basic *BasicHandler, reg *transfer.Registry) *CallbackHandler {
	return &CallbackHandler{client: cli, basic: basic, registry: reg}
}

func (h *CallbackHandler) Handle(ctx context.Context, e tg.Entities, q *tg.UpdateBotCallbackQuery) error {
	data := string(q.Data)

	if owner, ok := transfer.ParseCancelData(data); ok {
		text, alert := cancelAnswer(h.registry.CancelBy(q.UserID, owner))
		logger.Info("Cancel requested", "user", q.UserID, "owner", owner, "answer", text)
		return h.client.AnswerCallback(ctx, q.QueryID, text, alert)
	}

	// Answer first so the button stops spinning even if the edit fails.
	if err := h.client.AnswerCallback(ctx, q.QueryID, "", false); err != nil {
		logger.Debug("Callback answer failed", "error", err)
	}

	peer, err := telegram.ResolvePeer(q.Peer, e)
	if err != nil {
		return fmt.Errorf("failed to resolve peer: %w", err)
	}

	if data == cbClose {
		return h.basic.HandleClose(ctx, peer, q.MsgID)
	}
	if handled, err := h.basic.HandleMenu(ctx, peer, q.MsgID, data); handled {
		return err
	}

	logger.Debug("Unknown callback", "data", data, "user", q.UserID)
	return nil
}
