package telegram

import (
	"context"
	"fmt"

	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/message/html"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/pavelc4/gofile-relay-bot/internal/transfer"
)

// Message is a bot message that can be edited in place.
type Message struct {
	sender *message.Sender
	peer   tg.InputPeerClass
	id     int
}

func NewMessage(sender *message.Sender, peer tg.InputPeerClass, id int) *Message {
	return &Message{sender: sender, peer: peer, id: id}
}

func (m *Message) ID() int { return m.id }

// EditHTML replaces the text and keyboard. A nil markup removes the
// keyboard. Edits that change nothing are not errors.
func (m *Message) EditHTML(ctx context.Context, text string, markup *tg.ReplyInlineMarkup) error {
	b := m.sender.To(m.peer).NoWebpage()
	if markup != nil {
		b = b.Markup(markup)
	}
	_, err := b.Edit(m.id).StyledText(ctx, html.String(nil, text))
	if tgerr.Is(err, "MESSAGE_NOT_MODIFIED") {
		return nil
	}
	return err
}

// Edit renders a transfer view. It makes Message a transfer.Sink.
func (m *Message) Edit(ctx context.Context, v transfer.View) error {
	return m.EditHTML(ctx, v.Text, ViewKeyboard(v.Buttons))
}

var _ transfer.Sink = (*Message)(nil)

// Message returns a handle for editing an existing message.
func (c *Client) Message(peer tg.InputPeerClass, id int) *Message {
	return NewMessage(c.sender, peer, id)
}

// ReplyHTML sends text as a reply to replyTo and returns the new message.
func (c *Client) ReplyHTML(ctx context.Context, peer tg.InputPeerClass, replyTo int, text string, markup *tg.ReplyInlineMarkup) (*Message, error) {
	b := c.sender.To(peer).Reply(replyTo).NoWebpage()
	if markup != nil {
		b = b.Markup(markup)
	}
	updates, err := b.StyledText(ctx, html.String(nil, text))
	if err != nil {
		return nil, fmt.Errorf("send message failed: %w", err)
	}
	return c.Message(peer, MessageID(updates)), nil
}

// AnswerCallback shows a toast (or an alert) for a button press.
func (c *Client) AnswerCallback(ctx context.Context, queryID int64, text string, alert bool) error {
	_, err := c.api.MessagesSetBotCallbackAnswer(ctx, &tg.MessagesSetBotCallbackAnswerRequest{
		QueryID: queryID,
		Message: text,
		Alert:   alert,
	})
	return err
}
