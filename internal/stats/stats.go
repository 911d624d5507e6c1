package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pavelc4/gofile-relay-bot/pkg/logger"
)

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailed
	OutcomeCancelled
)

// BotStats counts relays. It is persisted as JSON when a path is set.
type BotStats struct {
	mu        sync.RWMutex
	path      string
	StartTime time.Time `json:"-"`

	TotalRelays     int64
	SuccessRelays   int64
	FailedRelays    int64
	CancelledRelays int64
	TotalBytes      int64

	UniqueUsers map[int64]bool

	DailyStats map[string]*PeriodStats // YYYY-MM-DD

	LastRelayTime time.Time
}

type PeriodStats struct {
	Relays int64
	Bytes  int64
	Users  map[int64]bool
}

// Snapshot is a lock-free copy of the counters for rendering.
type Snapshot struct {
	TotalRelays     int64
	SuccessRelays   int64
	FailedRelays    int64
	CancelledRelays int64
	TotalBytes      int64
	UniqueUsers     int
	TodayRelays     int64
	TodayBytes      int64
	LastRelayTime   time.Time
	Uptime          time.Duration
}

// New returns empty counters backed by path. An empty path disables
// persistence.
func New(path string) *BotStats {
	return &BotStats{
		path:        path,
		StartTime:   time.Now(),
		UniqueUsers: make(map[int64]bool),
		DailyStats:  make(map[string]*PeriodStats),
	}
}

func (s *BotStats) RecordRelay(userID int64, outcome Outcome, bytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	s.TotalRelays++
	s.LastRelayTime = now
	s.UniqueUsers[userID] = true

	switch outcome {
	case OutcomeSuccess:
		s.SuccessRelays++
		s.TotalBytes += bytes
	case OutcomeFailed:
		s.FailedRelays++
	case OutcomeCancelled:
		s.CancelledRelays++
	}

	key := now.Format("2006-01-02")
	day := s.DailyStats[key]
	if day == nil {
		day = &PeriodStats{Users: make(map[int64]bool)}
		s.DailyStats[key] = day
	}
	day.Relays++
	day.Users[userID] = true
	if outcome == OutcomeSuccess {
		day.Bytes += bytes
	}
}

func (s *BotStats) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		TotalRelays:     s.TotalRelays,
		SuccessRelays:   s.SuccessRelays,
		FailedRelays:    s.FailedRelays,
		CancelledRelays: s.CancelledRelays,
		TotalBytes:      s.TotalBytes,
		UniqueUsers:     len(s.UniqueUsers),
		LastRelayTime:   s.LastRelayTime,
		Uptime:          time.Since(s.StartTime),
	}
	if day := s.DailyStats[time.Now().Format("2006-01-02")]; day != nil {
		snap.TodayRelays = day.Relays
		snap.TodayBytes = day.Bytes
	}
	return snap
}

func (s *BotStats) SaveToFile() error {
	if s.path == "" {
		return nil
	}

	s.mu.RLock()
	data, err := json.MarshalIndent(s, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *BotStats) LoadFromFile() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("decode stats: %w", err)
	}
	if s.UniqueUsers == nil {
		s.UniqueUsers = make(map[int64]bool)
	}
	if s.DailyStats == nil {
		s.DailyStats = make(map[string]*PeriodStats)
	}
	return nil
}

// StartAutoSave writes the counters every interval until done is closed,
// and once more on the way out.
func (s *BotStats) StartAutoSave(interval time.Duration, done <-chan struct{}) {
	if s.path == "" {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.SaveToFile(); err != nil {
					logger.Error("Failed to save stats", "error", err)
				}
			case <-done:
				if err := s.SaveToFile(); err != nil {
					logger.Error("Failed to save stats", "error", err)
				}
				return
			}
		}
	}()
}
