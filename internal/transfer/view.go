package transfer

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/pavelc4/gofile-relay-bot/internal/utils"
)

const cancelPrefix = "cancel_"

// CancelData is the callback payload of the cancel button for userID.
func CancelData(userID int64) string {
	return cancelPrefix + strconv.FormatInt(userID, 10)
}

// ParseCancelData extracts the owner id from a cancel callback payload.
func ParseCancelData(data string) (int64, bool) {
	raw, ok := strings.CutPrefix(data, cancelPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func CancelButton(userID int64) Button {
	return Button{Text: "✖ Cancel", Data: CancelData(userID)}
}

func progressText(p Progress) string {
	var sb strings.Builder

	total := "Unknown"
	if p.Total > 0 {
		total = utils.FormatSize(p.Total)
	}
	eta := "-"
	if p.Total > 0 {
		eta = utils.FormatDuration(p.ETA)
	}

	switch p.Kind {
	case KindUpload:
		sb.WriteString("<b>Uploading...</b> 📤\n\n")
	default:
		sb.WriteString("<b>Downloading...</b> 📥\n\n")
		fmt.Fprintf(&sb, "<b>File Name:</b> <code>%s</code>\n\n", html.EscapeString(p.Filename))
		fmt.Fprintf(&sb, "<b>Size:</b> <code>%s</code>\n\n", total)
	}

	fmt.Fprintf(&sb, "<b>[ %s ]</b> <code>%.2f%%</code>\n\n", utils.RenderBar(p.Percentage, utils.DefaultBarLength), p.Percentage)
	fmt.Fprintf(&sb, "<b>➩</b> <code>%s</code> of <code>%s</code>\n\n", utils.FormatSize(p.Transferred), total)
	fmt.Fprintf(&sb, "<b>➩ Speed:</b> <code>%s/s</code>\n\n", utils.FormatSize(int64(p.Speed)))
	fmt.Fprintf(&sb, "<b>➩ Time Left:</b> <code>%s</code>", eta)

	return sb.String()
}

func completedView(p Progress) View {
	if p.Kind == KindUpload {
		return View{Text: "<b>Upload Completed</b> ✓"}
	}

	size := p.Total
	if size == 0 {
		size = p.Transferred
	}
	return View{Text: fmt.Sprintf(
		"<b>Download Completed</b> ✓\n\n"+
			"<b>File Name:</b> <code>%s</code>\n\n"+
			"<b>Size:</b> <code>%s</code>",
		html.EscapeString(p.Filename),
		utils.FormatSize(size),
	)}
}

func cancelledView(p Progress) View {
	title := "Download Cancelled"
	if p.Kind == KindUpload {
		title = "Upload Cancelled"
	}
	return View{Text: fmt.Sprintf(
		"<b>%s</b> ✗\n\n"+
			"<b>File Name:</b> <code>%s</code>\n\n"+
			"<b>Transferred:</b> <code>%s</code>",
		title,
		html.EscapeString(p.Filename),
		utils.FormatSize(p.Transferred),
	)}
}
