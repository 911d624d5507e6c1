package telegram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"

	"github.com/pavelc4/gofile-relay-bot/config"
	"github.com/pavelc4/gofile-relay-bot/pkg/logger"
)

type Client struct {
	client     *telegram.Client
	api        *tg.Client
	sender     *message.Sender
	dispatcher tg.UpdateDispatcher
	me         *tg.User
	log        *zap.Logger
}

func NewClient(cfg *config.Config, dispatcher tg.UpdateDispatcher) (*Client, error) {
	if err := os.MkdirAll(cfg.SessionDir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	sessionPath := filepath.Join(cfg.SessionDir, "session.json")

	log := zap.NewNop()
	if cfg.Debug {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("create mtproto logger: %w", err)
		}
		log = dev.Named("mtproto")
	}

	opts := telegram.Options{
		SessionStorage: &session.FileStorage{Path: sessionPath},
		UpdateHandler:  dispatcher,
		Logger:         log,
	}

	client := telegram.NewClient(cfg.AppID, cfg.AppHash, opts)
	api := client.API()

	return &Client{
		client:     client,
		api:        api,
		sender:     message.NewSender(api),
		dispatcher: dispatcher,
		log:        log,
	}, nil
}

// Start logs in as the bot and blocks until ctx is done. ready, if not
// nil, runs once the session is authorized.
func (c *Client) Start(ctx context.Context, botToken string, ready func(ctx context.Context) error) error {
	defer func() { _ = c.log.Sync() }()

	return c.client.Run(ctx, func(ctx context.Context) error {
		status, err := c.client.Auth().Status(ctx)
		if err != nil {
			return fmt.Errorf("auth status failed: %w", err)
		}

		if !status.Authorized {
			if _, err := c.client.Auth().Bot(ctx, botToken); err != nil {
				return fmt.Errorf("bot login failed: %w", err)
			}
		}

		me, err := c.client.Self(ctx)
		if err != nil {
			return fmt.Errorf("get self failed: %w", err)
		}
		c.me = me

		logger.Info("Telegram client connected", "username", me.Username, "id", me.ID)

		if ready != nil {
			if err := ready(ctx); err != nil {
				return err
			}
		}

		<-ctx.Done()
		return nil
	})
}

func (c *Client) API() *tg.Client {
	return c.api
}

func (c *Client) Sender() *message.Sender {
	return c.sender
}

func (c *Client) Me() *tg.User {
	return c.me
}
