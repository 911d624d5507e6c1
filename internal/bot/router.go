package bot

import (
	"context"

	"github.com/gotd/td/tg"

	"github.com/pavelc4/gofile-relay-bot/internal/handler"
	"github.com/pavelc4/gofile-relay-bot/pkg/logger"
)

type commandFunc func(ctx context.Context, e tg.Entities, msg *tg.Message) error

type callbackFunc func(ctx context.Context, e tg.Entities, q *tg.UpdateBotCallbackQuery) error

type Handlers struct {
	Basic    *handler.BasicHandler
	Upload   *handler.UploadHandler
	Delete   *handler.DeleteHandler
	Admin    *handler.AdminHandler
	Callback *handler.CallbackHandler
}

type Router struct {
	commands map[string]commandFunc
	callback callbackFunc
}

func NewRouter(h Handlers) *Router {
	return newRouter(map[string]commandFunc{
		"/start":  h.Basic.HandleStart,
		"/help":   h.Basic.HandleHelp,
		"/upload": h.Upload.Handle,
		"/delete": h.Delete.Handle,
		"/stats":  h.Admin.HandleStats,
	}, h.Callback.Handle)
}

func newRouter(commands map[string]commandFunc, callback callbackFunc) *Router {
	return &Router{commands: commands, callback: callback}
}

// OnMessage routes private-chat commands. Everything else is ignored.
func (r *Router) OnMessage(ctx context.Context, e tg.Entities, update *tg.UpdateNewMessage) error {
	msg, ok := update.Message.(*tg.Message)
	if !ok || msg.Out {
		return nil
	}
	if _, private := msg.PeerID.(*tg.PeerUser); !private {
		return nil
	}

	cmd := handler.CommandName(msg.Message)
	fn, ok := r.commands[cmd]
	if !ok {
		return nil
	}

	logger.Debug("Command received", "cmd", cmd, "msg_id", msg.ID)
	return fn(ctx, e, msg)
}

func (r *Router) OnCallback(ctx context.Context, e tg.Entities, update *tg.UpdateBotCallbackQuery) error {
	logger.Debug("Callback received", "data", string(update.Data), "user", update.UserID)
	return r.callback(ctx, e, update)
}
