package handler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelc4/gofile-relay-bot/internal/gofile"
	"github.com/pavelc4/gofile-relay-bot/internal/relay"
	"github.com/pavelc4/gofile-relay-bot/internal/stats"
	"github.com/pavelc4/gofile-relay-bot/internal/telegram"
	"github.com/pavelc4/gofile-relay-bot/internal/transfer"
)

func TestParseUploadArgs(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		isReply bool
		want    uploadArgs
		wantErr error
	}{
		{"url", "/upload https://example.com/file.zip", false, uploadArgs{URL: "https://example.com/file.zip"}, nil},
		{"url token", "/upload https://example.com/file.zip tok", false, uploadArgs{URL: "https://example.com/file.zip", Token: "tok"}, nil},
		{"url token folder", "/upload http://example.com/f tok fold", false, uploadArgs{URL: "http://example.com/f", Token: "tok", FolderID: "fold"}, nil},
		{"newlines", "/upload\nhttps://example.com/f\ntok", false, uploadArgs{URL: "https://example.com/f", Token: "tok"}, nil},
		{"no args", "/upload", false, uploadArgs{}, errNoMedia},
		{"not a url", "/upload example.com/file.zip", false, uploadArgs{}, errBadURL},
		{"ftp", "/upload ftp://example.com/file", false, uploadArgs{}, errBadURL},
		{"no host", "/upload https://", false, uploadArgs{}, errBadURL},
		{"reply bare", "/upload", true, uploadArgs{}, nil},
		{"reply token", "/upload tok", true, uploadArgs{Token: "tok"}, nil},
		{"reply token folder", "/upload tok fold", true, uploadArgs{Token: "tok", FolderID: "fold"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseUploadArgs(tt.text, tt.isReply)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDeleteArgs(t *testing.T) {
	got, err := parseDeleteArgs("/delete tok abc-123")
	require.NoError(t, err)
	assert.Equal(t, deleteArgs{Token: "tok", ContentID: "abc-123"}, got)

	for _, text := range []string{"/delete", "/delete tok"} {
		_, err := parseDeleteArgs(text)
		assert.ErrorIs(t, err, errDeleteUsage, text)
	}
}

func TestCommandName(t *testing.T) {
	assert.Equal(t, "/upload", CommandName("/upload https://x"))
	assert.Equal(t, "/start", CommandName("/Start@GoFileBot"))
	assert.Equal(t, "/uploadx", CommandName("/uploadx"))
	assert.Empty(t, CommandName("hello"))
	assert.Empty(t, CommandName("   "))
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "Error :- <code>url is wrong</code>", errorText(errBadURL))
	assert.Equal(t, "Error :- <code>a &lt;b&gt; c</code>", errorText(errors.New("a <b> c")))
	assert.Contains(t, errorText(transfer.ErrBusy), "already have a transfer")
	assert.Contains(t, errorText(fmt.Errorf("wrap: %w", relay.ErrInsufficientSpace)), "disk space")
	assert.Equal(t, "Error :- <code>gofile returned error-notFound</code>",
		errorText(fmt.Errorf("upload: %w", &gofile.APIError{Op: "upload", Status: "error-notFound"})))
	assert.Contains(t, errorText(telegram.ErrNoMedia), "media or url not found")
}

func TestCancelAnswer(t *testing.T) {
	text, alert := cancelAnswer(nil)
	assert.Equal(t, "Cancelling...", text)
	assert.False(t, alert)

	text, alert = cancelAnswer(transfer.ErrNotOwner)
	assert.Equal(t, "This is not your transfer.", text)
	assert.True(t, alert)

	text, alert = cancelAnswer(transfer.ErrNoOperation)
	assert.Equal(t, "Nothing to cancel.", text)
	assert.False(t, alert)
}

func TestResultCard(t *testing.T) {
	f := &gofile.File{
		Name:             "a&b.txt",
		ID:               "id1",
		ParentFolderCode: "Xy",
		GuestToken:       "g",
		MD5:              "m",
		DownloadPage:     "https://gofile.io/d/Xy",
	}

	text := resultText(f)
	assert.Contains(t, text, "<b>File Name:</b> <code>a&amp;b.txt</code>")
	assert.Contains(t, text, "<b>Download Page:</b> <code>https://gofile.io/d/Xy</code>")
	assert.NotContains(t, text, "\n\n")

	kb := resultKeyboard(f.DownloadPage, "")
	require.NotNil(t, kb)
	require.Len(t, kb.Rows, 1)
	share, ok := kb.Rows[0].Buttons[1].(*tg.KeyboardButtonURL)
	require.True(t, ok)
	assert.Equal(t, "https://telegram.me/share/url?url=https%3A%2F%2Fgofile.io%2Fd%2FXy", share.URL)

	kb = resultKeyboard(f.DownloadPage, "https://t.me/feedback")
	require.Len(t, kb.Rows, 2)
	assert.Equal(t, &tg.KeyboardButtonURL{Text: "Feedback", URL: "https://t.me/feedback"}, kb.Rows[1].Buttons[0])
}

func TestMenuPage(t *testing.T) {
	for _, data := range []string{cbHelp, cbFeatures, cbHome} {
		text, kb, ok := menuPage(data)
		assert.True(t, ok, data)
		assert.NotEmpty(t, text)
		require.NotNil(t, kb)
		assert.Len(t, kb.Rows, 2)
	}

	_, _, ok := menuPage(cbClose)
	assert.False(t, ok)
	_, _, ok = menuPage("cancel_1")
	assert.False(t, ok)
}

func TestStatsText(t *testing.T) {
	l := relay.NewLimiter(4)
	require.NoError(t, l.Acquire(context.Background()))

	text := statsText(&stats.SystemInfo{OS: "linux", CPUCores: 8, GoVersion: "go1.25"}, stats.Snapshot{
		TotalRelays:   3,
		SuccessRelays: 2,
		FailedRelays:  1,
		TotalBytes:    1536,
	}, 1, l)

	assert.Contains(t, text, "<code>linux</code>")
	assert.Contains(t, text, "Active : <code>1</code>")
	assert.Contains(t, text, "Slots : <code>1 / 4</code>")
	assert.Contains(t, text, "Uploaded : <code>1.5 KB</code>")
	assert.Contains(t, statsText(&stats.SystemInfo{}, stats.Snapshot{}, 0, nil), "unlimited")
}
