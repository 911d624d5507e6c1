package handler

import (
	"context"

	"github.com/gotd/td/tg"

	"github.com/pavelc4/gofile-relay-bot/internal/telegram"
	"github.com/pavelc4/gofile-relay-bot/pkg/logger"
)

type BasicHandler struct {
	client *telegram.Client
}

func NewBasicHandler(cli *telegram.Client) *BasicHandler {
	return &BasicHandler{client: cli}
}

func (h *BasicHandler) HandleStart(ctx context.Context, e tg.Entities, msg *tg.Message) error {
	peer, err := telegram.ResolvePeer(msg.PeerID, e)
	if err != nil {
		return err
	}
	_, err = h.client.ReplyHTML(ctx, peer, msg.ID, welcomeText, homeKeyboard())
	return err
}

func (h *BasicHandler) HandleHelp(ctx context.Context, e tg.Entities, msg *tg.Message) error {
	peer, err := telegram.ResolvePeer(msg.PeerID, e)
	if err != nil {
		return err
	}
	_, err = h.client.ReplyHTML(ctx, peer, msg.ID, helpText, helpKeyboard())
	return err
}

// HandleMenu switches the menu message to another page. It reports false
// for data that is not a menu callback.
func (h *BasicHandler) HandleMenu(ctx context.Context, peer tg.InputPeerClass, msgID int, data string) (bool, error) {
	text, kb, ok := menuPage(data)
	if !ok {
		return false, nil
	}
	return true, h.client.Message(peer, msgID).EditHTML(ctx, text, kb)
}

// HandleClose deletes the menu and, when possible, the /start that
// opened it.
func (h *BasicHandler) HandleClose(ctx context.Context, peer tg.InputPeerClass, msgID int) error {
	ids := []int{msgID}
	if menu, err := telegram.FetchMessage(ctx, h.client.API(), peer, msgID); err == nil {
		if replyTo, ok := telegram.ReplyToID(menu); ok {
			ids = append(ids, replyTo)
		}
	} else {
		logger.Debug("Menu lookup failed", "msg_id", msgID, "error", err)
	}
	return telegram.DeleteMessages(ctx, h.client.API(), peer, ids...)
}
