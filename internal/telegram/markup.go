package telegram

import (
	"github.com/gotd/td/tg"

	"github.com/pavelc4/gofile-relay-bot/internal/transfer"
)

func CallbackButton(text, data string) tg.KeyboardButtonClass {
	return &tg.KeyboardButtonCallback{Text: text, Data: []byte(data)}
}

func URLButton(text, url string) tg.KeyboardButtonClass {
	return &tg.KeyboardButtonURL{Text: text, URL: url}
}

// Keyboard builds an inline keyboard, skipping empty rows. It returns nil
// when no buttons remain, which clears the keyboard on edit.
func Keyboard(rows ...[]tg.KeyboardButtonClass) *tg.ReplyInlineMarkup {
	markup := &tg.ReplyInlineMarkup{}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		markup.Rows = append(markup.Rows, tg.KeyboardButtonRow{Buttons: row})
	}
	if len(markup.Rows) == 0 {
		return nil
	}
	return markup
}

// ViewKeyboard lays out a progress view's buttons on a single row.
func ViewKeyboard(buttons []transfer.Button) *tg.ReplyInlineMarkup {
	row := make([]tg.KeyboardButtonClass, 0, len(buttons))
	for _, b := range buttons {
		row = append(row, CallbackButton(b.Text, b.Data))
	}
	return Keyboard(row)
}
