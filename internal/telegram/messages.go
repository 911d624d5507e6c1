package telegram

import (
	"context"
	"fmt"

	"github.com/gotd/td/tg"
)

// ResolvePeer converts a PeerClass to InputPeerClass using the provided entities.
func ResolvePeer(peer tg.PeerClass, entities tg.Entities) (tg.InputPeerClass, error) {
	switch p := peer.(type) {
	case *tg.PeerUser:
		user, ok := entities.Users[p.UserID]
		if !ok {
			return nil, fmt.Errorf("user %d not found in entities", p.UserID)
		}
		return &tg.InputPeerUser{
			UserID:     user.ID,
			AccessHash: user.AccessHash,
		}, nil
	case *tg.PeerChat:
		return &tg.InputPeerChat{ChatID: p.ChatID}, nil
	case *tg.PeerChannel:
		channel, ok := entities.Channels[p.ChannelID]
		if !ok {
			return nil, fmt.Errorf("channel %d not found in entities", p.ChannelID)
		}
		return &tg.InputPeerChannel{
			ChannelID:  channel.ID,
			AccessHash: channel.AccessHash,
		}, nil
	default:
		return nil, fmt.Errorf("unknown peer type: %T", peer)
	}
}

// MessageID extracts the id of the message a send call produced.
func MessageID(updates tg.UpdatesClass) int {
	switch u := updates.(type) {
	case *tg.UpdateShortSentMessage:
		return u.ID
	case *tg.Updates:
		for _, update := range u.Updates {
			switch upd := update.(type) {
			case *tg.UpdateMessageID:
				return upd.ID
			case *tg.UpdateNewMessage:
				if m, ok := upd.Message.(*tg.Message); ok {
					return m.ID
				}
			case *tg.UpdateNewChannelMessage:
				if m, ok := upd.Message.(*tg.Message); ok {
					return m.ID
				}
			}
		}
	}
	return 0
}

// SenderID returns the user who wrote msg, falling back to the chat peer
// for private chats.
func SenderID(msg *tg.Message) int64 {
	if from, ok := msg.GetFromID(); ok {
		if user, ok := from.(*tg.PeerUser); ok {
			return user.UserID
		}
	}
	if peer, ok := msg.PeerID.(*tg.PeerUser); ok {
		return peer.UserID
	}
	return 0
}

// DeleteMessages removes ids for everyone. Channels need their own call.
func DeleteMessages(ctx context.Context, api *tg.Client, peer tg.InputPeerClass, ids ...int) error {
	if channel, ok := peer.(*tg.InputPeerChannel); ok {
		_, err := api.ChannelsDeleteMessages(ctx, &tg.ChannelsDeleteMessagesRequest{
			Channel: &tg.InputChannel{
				ChannelID:  channel.ChannelID,
				AccessHash: channel.AccessHash,
			},
			ID: ids,
		})
		return err
	}
	_, err := api.MessagesDeleteMessages(ctx, &tg.MessagesDeleteMessagesRequest{
		ID:     ids,
		Revoke: true,
	})
	return err
}

// ReplyToID reports the message msg replies to, if any.
func ReplyToID(msg *tg.Message) (int, bool) {
	header, ok := msg.GetReplyTo()
	if !ok {
		return 0, false
	}
	reply, ok := header.(*tg.MessageReplyHeader)
	if !ok {
		return 0, false
	}
	return reply.GetReplyToMsgID()
}

// FetchMessage loads one message by id from a private chat or group.
func FetchMessage(ctx context.Context, api *tg.Client, peer tg.InputPeerClass, id int) (*tg.Message, error) {
	var (
		res tg.MessagesMessagesClass
		err error
	)
	if channel, ok := peer.(*tg.InputPeerChannel); ok {
		res, err = api.ChannelsGetMessages(ctx, &tg.ChannelsGetMessagesRequest{
			Channel: &tg.InputChannel{ChannelID: channel.ChannelID, AccessHash: channel.AccessHash},
			ID:      []tg.InputMessageClass{&tg.InputMessageID{ID: id}},
		})
	} else {
		res, err = api.MessagesGetMessages(ctx, []tg.InputMessageClass{&tg.InputMessageID{ID: id}})
	}
	if err != nil {
		return nil, fmt.Errorf("get message %d: %w", id, err)
	}

	modified, ok := res.AsModified()
	if !ok {
		return nil, fmt.Errorf("get message %d: unexpected %T", id, res)
	}
	for _, m := range modified.GetMessages() {
		if msg, ok := m.(*tg.Message); ok && msg.ID == id {
			return msg, nil
		}
	}
	return nil, fmt.Errorf("message %d not found", id)
}
