package utils

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pavelc4/gofile-relay-bot/pkg/logger"
)

// CleanupStaleDirs removes entries directly under root that were last
// modified before olderThan ago. Relays normally remove their own work
// directory; this sweeps what a crash left behind.
func CleanupStaleDirs(ctx context.Context, root string, olderThan time.Duration) int {
	entries, err := os.ReadDir(root)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read work dir", "dir", root, "error", err)
		}
		return 0
	}

	cutoff := time.Now().Add(-olderThan)
	cleaned := 0

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			logger.Warn("Cleanup cancelled", "cleaned", cleaned)
			return cleaned
		default:
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			logger.Warn("Failed to remove stale entry", "path", path, "error", err)
			continue
		}
		cleaned++
	}

	if cleaned > 0 {
		logger.Info("Stale work dirs cleaned", "dir", root, "count", cleaned)
	}
	return cleaned
}
