package handler

import (
	"github.com/gotd/td/tg"

	"github.com/pavelc4/gofile-relay-bot/internal/telegram"
)

const (
	cbHelp     = "help"
	cbFeatures = "features"
	cbHome     = "back_home"
	cbClose    = "close"
)

const welcomeText = `🤖 <b>Welcome to GoFile Uploader Bot!</b>

I can help you upload files to gofile.io easily. Just send me a file or a direct download link and I'll handle the rest!

<b>What I can do:</b>
• Upload files to GoFile
• Support direct download links
• Custom folder uploads
• Delete uploaded content

Use the buttons below to explore features or get help.`

const helpText = `📖 <b>Help Guide</b>

<b>How to use this bot:</b>

<b>With Media Files:</b>
1. Send me any file (document, photo, video, etc.)
2. Reply to the file with <code>/upload</code>
3. Optional: Add token and folder ID
   - <code>/upload token</code>
   - <code>/upload token folderid</code>

<b>With Download Links:</b>
1. Send <code>/upload</code> followed by your URL
   - <code>/upload https://example.com/file.zip</code>
   - <code>/upload https://example.com/file.zip token</code>
   - <code>/upload https://example.com/file.zip token folderid</code>

<b>Deleting Content:</b>
   - <code>/delete token contentid</code>

Press <b>✖ Cancel</b> under a progress message to stop a running transfer.`

const featuresText = `⭐ <b>Bot Features</b>

🔹 <b>File Upload</b>: Upload any type of file to GoFile
🔹 <b>Link Support</b>: Upload from direct download links
🔹 <b>Custom Folders</b>: Specify custom folder IDs
🔹 <b>Token Support</b>: Use your own GoFile tokens
🔹 <b>Live Progress</b>: Speed and time left while transferring
🔹 <b>Cancel Anytime</b>: Stop a transfer with one tap

<b>Supported File Types:</b>
• Documents (PDF, ZIP, RAR, etc.)
• Images (JPG, PNG, GIF, etc.)
• Videos (MP4, AVI, MKV, etc.)
• Audio files (MP3, WAV, etc.)

Start by sending me a file or use the /upload command!`

func homeKeyboard() *tg.ReplyInlineMarkup {
	return telegram.Keyboard(
		[]tg.KeyboardButtonClass{
			telegram.CallbackButton("❓ Help", cbHelp),
			telegram.CallbackButton("⭐ Features", cbFeatures),
		},
		[]tg.KeyboardButtonClass{telegram.CallbackButton("❌ Close", cbClose)},
	)
}

func helpKeyboard() *tg.ReplyInlineMarkup {
	return telegram.Keyboard(
		[]tg.KeyboardButtonClass{
			telegram.CallbackButton("⬅️ Back", cbHome),
			telegram.CallbackButton("⭐ Features", cbFeatures),
		},
		[]tg.KeyboardButtonClass{telegram.CallbackButton("❌ Close", cbClose)},
	)
}

func featuresKeyboard() *tg.ReplyInlineMarkup {
	return telegram.Keyboard(
		[]tg.KeyboardButtonClass{
			telegram.CallbackButton("⬅️ Back", cbHome),
			telegram.CallbackButton("❓ Help", cbHelp),
		},
		[]tg.KeyboardButtonClass{telegram.CallbackButton("❌ Close", cbClose)},
	)
}

// menuPage returns the text and keyboard a navigation callback switches to.
func menuPage(data string) (string, *tg.ReplyInlineMarkup, bool) {
	switch data {
	case cbHelp:
		return helpText, helpKeyboard(), true
	case cbFeatures:
		return featuresText, featuresKeyboard(), true
	case cbHome:
		return welcomeText, homeKeyboard(), true
	default:
		return "", nil, false
	}
}
