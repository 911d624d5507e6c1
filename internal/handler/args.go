package handler

import (
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/gotd/td/tg"

	"github.com/pavelc4/gofile-relay-bot/internal/gofile"
	"github.com/pavelc4/gofile-relay-bot/internal/relay"
	"github.com/pavelc4/gofile-relay-bot/internal/telegram"
	"github.com/pavelc4/gofile-relay-bot/internal/transfer"
)

var (
	errBadURL      = errors.New("url is wrong")
	errNoMedia     = errors.New("downloadable media or url not found")
	errDeleteUsage = errors.New("usage: /delete token contentId")
)

type uploadArgs struct {
	URL      string
	Token    string
	FolderID string
}

// parseUploadArgs reads "/upload [url] [token] [folderId]". When the
// command replies to a message the URL is omitted and the first argument
// is the token.
func parseUploadArgs(text string, isReply bool) (uploadArgs, error) {
	fields := strings.Fields(text)
	if len(fields) > 0 {
		fields = fields[1:]
	}

	var args uploadArgs
	if isReply {
		if len(fields) > 0 {
			args.Token = fields[0]
		}
		if len(fields) > 1 {
			args.FolderID = fields[1]
		}
		return args, nil
	}

	if len(fields) == 0 {
		return args, errNoMedia
	}
	if !isHTTPURL(fields[0]) {
		return args, errBadURL
	}
	args.URL = fields[0]
	if len(fields) > 1 {
		args.Token = fields[1]
	}
	if len(fields) > 2 {
		args.FolderID = fields[2]
	}
	return args, nil
}

func isHTTPURL(raw string) bool {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return false
	}
	u, err := url.Parse(raw)
	return err == nil && u.Host != ""
}

type deleteArgs struct {
	Token     string
	ContentID string
}

func parseDeleteArgs(text string) (deleteArgs, error) {
	fields := strings.Fields(text)
	if len(fields) < 3 {
		return deleteArgs{}, errDeleteUsage
	}
	return deleteArgs{Token: fields[1], ContentID: fields[2]}, nil
}

// CommandName returns the bot command text starts with, lower-cased and
// without an @botname suffix. It is empty for plain text.
func CommandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	cmd := fields[0]
	if idx := strings.Index(cmd, "@"); idx != -1 {
		cmd = cmd[:idx]
	}
	return strings.ToLower(cmd)
}

func errorText(err error) string {
	return fmt.Sprintf("Error :- <code>%s</code>", html.EscapeString(userMessage(err)))
}

// userMessage maps internal errors to what the user should read.
func userMessage(err error) string {
	var apiErr *gofile.APIError
	switch {
	case errors.Is(err, transfer.ErrBusy):
		return "you already have a transfer running, cancel it first"
	case errors.Is(err, relay.ErrInsufficientSpace):
		return "not enough disk space on the server for this file"
	case errors.Is(err, telegram.ErrNoMedia):
		return errNoMedia.Error()
	case errors.As(err, &apiErr):
		return fmt.Sprintf("gofile returned %s", apiErr.Status)
	default:
		return err.Error()
	}
}

// cancelAnswer is the toast shown after a cancel button press.
func cancelAnswer(err error) (text string, alert bool) {
	switch {
	case err == nil:
		return "Cancelling...", false
	case errors.Is(err, transfer.ErrNotOwner):
		return "This is not your transfer.", true
	case errors.Is(err, transfer.ErrNoOperation):
		return "Nothing to cancel.", false
	default:
		return "Could not cancel.", true
	}
}

func resultText(f *gofile.File) string {
	var sb strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&sb, "<b>%s:</b> <code>%s</code>\n", label, html.EscapeString(value))
	}
	row("File Name", f.Name)
	row("File ID", f.ID)
	row("Parent Folder Code", f.ParentFolderCode)
	row("Guest Token", f.GuestToken)
	row("md5", f.MD5)
	row("Download Page", f.DownloadPage)
	return strings.TrimSuffix(sb.String(), "\n")
}

func resultKeyboard(link, feedbackURL string) *tg.ReplyInlineMarkup {
	var links []tg.KeyboardButtonClass
	if link != "" {
		links = append(links,
			telegram.URLButton("Open Link", link),
			telegram.URLButton("Share Link", "https://telegram.me/share/url?url="+url.QueryEscape(link)),
		)
	}
	var feedback []tg.KeyboardButtonClass
	if feedbackURL != "" {
		feedback = append(feedback, telegram.URLButton("Feedback", feedbackURL))
	}
	return telegram.Keyboard(links, feedback)
}
