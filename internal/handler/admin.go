package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gotd/td/tg"

	"github.com/pavelc4/gofile-relay-bot/internal/relay"
	"github.com/pavelc4/gofile-relay-bot/internal/stats"
	"github.com/pavelc4/gofile-relay-bot/internal/telegram"
	"github.com/pavelc4/gofile-relay-bot/internal/transfer"
	"github.com/pavelc4/gofile-relay-bot/internal/utils"
)

type AdminHandler struct {
	client   *telegram.Client
	ownerID  int64
	workDir  string
	registry *transfer.Registry
	limiter  *relay.Limiter
	stats    *stats.BotStats
}

func NewAdminHandler(cli *telegram.Client, ownerID int64, workDir string, reg *transfer.Registry, l *relay.Limiter, s *stats.BotStats) *AdminHandler {
	return &AdminHandler{
		client:   cli,
		ownerID:  ownerID,
		workDir:  workDir,
		registry: reg,
		limiter:  l,
		stats:    s,
	}
}

func (h *AdminHandler) HandleStats(ctx context.Context, e tg.Entities, msg *tg.Message) error {
	if h.ownerID == 0 || telegram.SenderID(msg) != h.ownerID {
		return nil // Ignore non-owner
	}

	peer, err := telegram.ResolvePeer(msg.PeerID, e)
	if err != nil {
		return err
	}

	text := statsText(stats.GetSystemInfo(h.workDir), h.stats.Snapshot(), h.registry.Len(), h.limiter)
	_, err = h.client.ReplyHTML(ctx, peer, msg.ID, text, nil)
	return err
}

func statsText(sys *stats.SystemInfo, snap stats.Snapshot, active int, l *relay.Limiter) string {
	slots := "unlimited"
	if l != nil {
		slots = fmt.Sprintf("%d / %d", l.Active(), l.Limit())
	}

	return fmt.Sprintf(
		"<b>System Status</b>\n\n"+
			"<b>OS Info</b>\n"+
			"├ System : <code>%s</code>\n"+
			"├ Host : <code>%s</code>\n"+
			"└ Uptime : <code>%s</code>\n\n"+
			"<b>CPU</b>\n"+
			"├ Cores : <code>%d</code>\n"+
			"└ Usage : <code>%.2f%%</code>\n\n"+
			"<b>Memory</b>\n"+
			"└ Used : <code>%s / %s (%.1f%%)</code>\n\n"+
			"<b>Disk (work dir)</b>\n"+
			"├ Used : <code>%s / %s (%.1f%%)</code>\n"+
			"└ Free : <code>%s</code>\n\n"+
			"<b>Network</b>\n"+
			"├ Sent : <code>%s</code>\n"+
			"└ Recv : <code>%s</code>\n\n"+
			"<b>Transfers</b>\n"+
			"├ Active : <code>%d</code>\n"+
			"├ Slots : <code>%s</code>\n"+
			"├ Total : <code>%d</code> (ok %d, failed %d, cancelled %d)\n"+
			"├ Today : <code>%d</code> (%s)\n"+
			"├ Uploaded : <code>%s</code>\n"+
			"└ Users : <code>%d</code>\n\n"+
			"<b>Bot Process</b>\n"+
			"├ Uptime : <code>%s</code>\n"+
			"├ PID : <code>%d</code>\n"+
			"├ CPU : <code>%.2f%%</code>\n"+
			"├ Mem : <code>%s</code>\n"+
			"├ Routines : <code>%d</code>\n"+
			"├ Heap : <code>%s</code>\n"+
			"├ GC Runs : <code>%d</code>\n"+
			"└ Go Ver : <code>%s</code>",
		sys.OS,
		sys.Hostname,
		sys.SystemUptime.Round(time.Second),
		sys.CPUCores,
		sys.CPUUsage,
		utils.FormatSize(int64(sys.MemUsed)), utils.FormatSize(int64(sys.MemTotal)), sys.MemPercent,
		utils.FormatSize(int64(sys.DiskUsed)), utils.FormatSize(int64(sys.DiskTotal)), sys.DiskPercent,
		utils.FormatSize(int64(sys.DiskFree)),
		utils.FormatSize(int64(sys.NetSent)),
		utils.FormatSize(int64(sys.NetRecv)),
		active,
		slots,
		snap.TotalRelays, snap.SuccessRelays, snap.FailedRelays, snap.CancelledRelays,
		snap.TodayRelays, utils.FormatSize(snap.TodayBytes),
		utils.FormatSize(snap.TotalBytes),
		snap.UniqueUsers,
		sys.ProcessUptime.Round(time.Second),
		sys.ProcessPID,
		sys.ProcessCPU,
		utils.FormatSize(int64(sys.ProcessMem)),
		sys.Goroutines,
		utils.FormatSize(int64(sys.HeapAlloc)),
		sys.GCRuns,
		sys.GoVersion,
	)
}
