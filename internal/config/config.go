package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr        string
	LogLevel        slog.Level
	ContentDir      string
	ContentBaseURL  string
	SettingsProfile string
	RenderWorkers   int
	FetchTimeout    time.Duration
	ExportScale     float64
	ChromePath      string
	PDFTimeout      time.Duration
	// PageLabel enables the QR page label on exported sheets.
	PageLabel string
	// RemoteImageHosts may serve http(s) image refs. Empty disables
	// downloads.
	RemoteImageHosts []string
}

// LoadEnvFile overlays variables from path onto the environment outside
// production. A missing file is not an error.
func LoadEnvFile(path string) (bool, error) {
	if os.Getenv("ENV") == "production" {
		return false, nil
	}
	if err := godotenv.Overload(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", path, err)
	}
	return true, nil
}

func Load() (Config, error) {
	c := Config{
		HTTPAddr:        envOr("HTTP_ADDR", ":"+envOr("PORT", "8080")),
		ContentDir:      envOr("CONTENT_DIR", "data"),
		ContentBaseURL:  envOr("CONTENT_BASE_URL", "/content/"),
		SettingsProfile: os.Getenv("SETTINGS_PROFILE"),
		RenderWorkers:   runtime.NumCPU(),
		FetchTimeout:    10 * time.Second,
		ExportScale:     4,
		ChromePath:      os.Getenv("CHROME_PATH"),
		PDFTimeout:      30 * time.Second,
		PageLabel:       os.Getenv("PAGE_LABEL"),
	}
	for _, h := range strings.Split(os.Getenv("REMOTE_IMAGE_HOSTS"), ",") {
		if h = strings.TrimSpace(h); h != "" {
			c.RemoteImageHosts = append(c.RemoteImageHosts, h)
		}
	}

	var err error
	if c.LogLevel, err = parseLogLevel(envOr("LOG_LEVEL", "info")); err != nil {
		return Config{}, err
	}
	if c.FetchTimeout, err = durationEnv("FETCH_TIMEOUT", c.FetchTimeout); err != nil {
		return Config{}, err
	}
	if c.PDFTimeout, err = durationEnv("PDF_TIMEOUT", c.PDFTimeout); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("RENDER_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("invalid RENDER_WORKERS %q", v)
		}
		c.RenderWorkers = n
	}
	if v := os.Getenv("EXPORT_SCALE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f > 16 {
			return Config{}, fmt.Errorf("invalid EXPORT_SCALE %q", v)
		}
		c.ExportScale = f
	}
	if !strings.HasSuffix(c.ContentBaseURL, "/") {
		c.ContentBaseURL += "/"
	}
	return c, nil
}

// NewLogger returns the JSON logger used across the service.
func NewLogger(c Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: c.LogLevel}))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, v)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
