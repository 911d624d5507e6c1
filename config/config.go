package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort                   = "10000"
	DefaultChunkSize              = 8 * 1024
	DefaultUploadSteps            = 10
	DefaultUploadStepPause        = 500 * time.Millisecond
	DefaultMaxConcurrentTransfers = 4
	DefaultGoFileUploadURL        = "https://upload.gofile.io"
	DefaultGoFileAPIURL           = "https://api.gofile.io"
)

type Config struct {
	BotToken   string
	AppID      int
	AppHash    string
	SessionDir string

	Port      string
	WorkDir   string
	StatsFile string
	OwnerID   int64

	MaxConcurrentTransfers int
	ChunkSize              int
	UploadSteps            int
	UploadStepPause        time.Duration

	GoFileUploadURL string
	GoFileAPIURL    string
	FeedbackURL     string

	SentryDSN         string
	SentryEnvironment string
	SentryRelease     string

	LogLevel string
	Debug    bool
}

// Load reads .env (if present) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	maxTransfers := getInt("MAX_CONCURRENT_TRANSFERS", 0)
	if maxTransfers <= 0 {
		maxTransfers = runtime.NumCPU() * 2
		if maxTransfers < DefaultMaxConcurrentTransfers {
			maxTransfers = DefaultMaxConcurrentTransfers
		}
	}

	return &Config{
		BotToken:   os.Getenv("BOT_TOKEN"),
		AppID:      getInt("API_ID", 0),
		AppHash:    os.Getenv("API_HASH"),
		SessionDir: getString("SESSION_DIR", "session"),

		Port:      getString("PORT", DefaultPort),
		WorkDir:   getString("WORK_DIR", filepath.Join(os.TempDir(), "gofile-relay")),
		StatsFile: getString("STATS_FILE", filepath.Join("data", "stats.json")),
		OwnerID:   int64(getInt("OWNER_ID", 0)),

		MaxConcurrentTransfers: maxTransfers,
		ChunkSize:              getInt("CHUNK_SIZE", DefaultChunkSize),
		UploadSteps:            getInt("UPLOAD_STEPS", DefaultUploadSteps),
		UploadStepPause:        getDuration("UPLOAD_STEP_PAUSE", DefaultUploadStepPause),

		GoFileUploadURL: strings.TrimRight(getString("GOFILE_UPLOAD_URL", DefaultGoFileUploadURL), "/"),
		GoFileAPIURL:    strings.TrimRight(getString("GOFILE_API_URL", DefaultGoFileAPIURL), "/"),
		FeedbackURL:     os.Getenv("FEEDBACK_URL"),

		SentryDSN:         os.Getenv("SENTRY_DSN"),
		SentryEnvironment: getString("SENTRY_ENVIRONMENT", "production"),
		SentryRelease:     getString("SENTRY_RELEASE", buildVersion()),

		LogLevel: getString("LOG_LEVEL", "info"),
		Debug:    getBool("DEBUG", false),
	}
}

// Validate reports every missing required setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.BotToken == "" {
		errs = append(errs, errors.New("BOT_TOKEN is not set"))
	}
	if c.AppID == 0 {
		errs = append(errs, errors.New("API_ID is not set"))
	}
	if c.AppHash == "" {
		errs = append(errs, errors.New("API_HASH is not set"))
	}
	if c.ChunkSize <= 0 {
		errs = append(errs, errors.New("CHUNK_SIZE must be positive"))
	}
	return errors.Join(errs...)
}

// buildVersion is the main module version stamped by the go tool, or
// "dev" for local builds.
func buildVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" || bi.Main.Version == "(devel)" {
		return "dev"
	}
	return bi.Main.Version
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
