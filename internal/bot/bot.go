package bot

import (
	"context"

	"github.com/gotd/td/tg"

	"github.com/pavelc4/gofile-relay-bot/internal/telegram"
	"github.com/pavelc4/gofile-relay-bot/pkg/logger"
)

var commands = []tg.BotCommand{
	{Command: "start", Description: "Start the bot"},
	{Command: "help", Description: "How to use the bot"},
	{Command: "upload", Description: "Upload a link or the replied file to GoFile"},
	{Command: "delete", Description: "Delete GoFile content: /delete token contentId"},
}

type Bot struct {
	client *telegram.Client
	router *Router
}

func New(client *telegram.Client, router *Router) *Bot {
	return &Bot{
		client: client,
		router: router,
	}
}

func (b *Bot) Router() *Router {
	return b.router
}

// Run connects, publishes the command list and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context, token string) error {
	return b.client.Start(ctx, token, func(ctx context.Context) error {
		_, err := b.client.API().BotsSetBotCommands(ctx, &tg.BotsSetBotCommandsRequest{
			Scope:    &tg.BotCommandScopeDefault{},
			Commands: commands,
		})
		if err != nil {
			logger.Warn("Failed to set bot commands", "error", err)
		}
		return nil
	})
}
