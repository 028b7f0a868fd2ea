package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// Song catalogs (JSON arrays, one file per genre)
	Catalog CatalogConfig `koanf:"catalog"`

	Playback  PlaybackConfig  `koanf:"playback"`
	Retry     RetryConfig     `koanf:"retry"`
	Stats     StatsConfig     `koanf:"stats"`
	KeepAlive KeepAliveConfig `koanf:"keepalive"`

	// Last.fm account used for listening stats (enables reporting when configured)
	Lastfm LastfmConfig `koanf:"lastfm"`

	Log LogConfig `koanf:"log"`
	UI  UIConfig  `koanf:"ui"`
}

// CatalogConfig lists catalog files or directories of catalog files.
type CatalogConfig struct {
	Paths []string `koanf:"paths"`
}

// PlaybackConfig holds fade and navigation timings.
type PlaybackConfig struct {
	FadeInMS            int     `koanf:"fade_in_ms"`         // default: 15000
	FadeOutMS           int     `koanf:"fade_out_ms"`        // default: 8000
	FadeTickMS          int     `koanf:"fade_tick_ms"`       // default: 16
	FadeOutWindowSecs   int     `koanf:"fade_out_window"`    // seconds before the end, default: 8
	ResumeFadeWindowSec int     `koanf:"resume_fade_window"` // default: 5
	RestartThresholdSec int     `koanf:"restart_threshold"`  // previous restarts past this, default: 3
	Volume              float64 `koanf:"volume"`             // 0.0-1.0, default: 1.0
	UserAgent           string  `koanf:"user_agent"`         // HTTP user agent for track downloads
	MaxDownloadMB       int     `koanf:"max_download_mb"`    // default: 64
	TimeUpdateMS        int     `koanf:"time_update_ms"`     // default: 250
}

// RetryConfig holds the retry policy shared by load and playback failures.
type RetryConfig struct {
	MaxAttempts     *int `koanf:"max_attempts"`      // default: 1
	DelayMS         int  `koanf:"delay_ms"`          // default: 300
	FallbackDelayMS int  `koanf:"fallback_delay_ms"` // default: 1000
}

// StatsConfig holds listening-stats thresholds.
type StatsConfig struct {
	EligibilitySeconds   int `koanf:"eligibility_seconds"`    // default: 90
	MinReportableSeconds int `koanf:"min_reportable_seconds"` // default: 30
	TimeoutMS            int `koanf:"timeout_ms"`             // default: 2500
	ReconcileSeconds     int `koanf:"reconcile_seconds"`      // default: 300
}

// KeepAliveConfig holds the background keep-alive settings.
type KeepAliveConfig struct {
	IntervalSeconds int   `koanf:"interval_seconds"` // default: 10
	WakeLock        *bool `koanf:"wake_lock"`        // inhibit screensaver while playing (default: true)
}

// LastfmConfig holds Last.fm API credentials.
type LastfmConfig struct {
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
}

// LogConfig holds log settings.
type LogConfig struct {
	Level string `koanf:"level"` // logrus level name, default: info
	File  string `koanf:"file"`  // default: $XDG_STATE_HOME/aura/aura.log
}

// UIConfig holds display settings.
type UIConfig struct {
	Icons string `koanf:"icons"` // "nerd", "unicode" or "none", default: unicode
}

func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given TOML files in order (last wins). Missing files
// are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	for i, p := range cfg.Catalog.Paths {
		cfg.Catalog.Paths[i] = expandPath(p)
	}
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/aura/config.toml
		filepath.Join(xdg.ConfigHome, "aura", "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasLastfmConfig returns true if Last.fm reporting is configured.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != ""
}

// Playback timings with defaults applied.
type Playback struct {
	FadeIn           time.Duration
	FadeOut          time.Duration
	FadeTick         time.Duration
	FadeOutWindow    time.Duration
	ResumeFadeWindow time.Duration
	RestartThreshold time.Duration
	Volume           float64
	UserAgent        string
	MaxBytes         int64
	TimeUpdate       time.Duration
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() Playback {
	p := c.Playback
	out := Playback{
		FadeIn:           millis(p.FadeInMS, 15000),
		FadeOut:          millis(p.FadeOutMS, 8000),
		FadeTick:         millis(p.FadeTickMS, 16),
		FadeOutWindow:    seconds(p.FadeOutWindowSecs, 8),
		ResumeFadeWindow: seconds(p.ResumeFadeWindowSec, 5),
		RestartThreshold: seconds(p.RestartThresholdSec, 3),
		Volume:           p.Volume,
		UserAgent:        p.UserAgent,
		MaxBytes:         int64(p.MaxDownloadMB) << 20,
		TimeUpdate:       millis(p.TimeUpdateMS, 250),
	}
	if out.Volume <= 0 || out.Volume > 1 {
		out.Volume = 1
	}
	if out.UserAgent == "" {
		out.UserAgent = "aura/1.0"
	}
	if p.MaxDownloadMB <= 0 {
		out.MaxBytes = 64 << 20
	}
	return out
}

// Retry policy with defaults applied.
type Retry struct {
	MaxAttempts int
	Delay       time.Duration
	Fallback    time.Duration
}

// GetRetryConfig returns the retry policy with defaults applied. An
// explicit max_attempts of 0 disables retries.
func (c *Config) GetRetryConfig() Retry {
	r := Retry{
		MaxAttempts: 1,
		Delay:       millis(c.Retry.DelayMS, 300),
		Fallback:    millis(c.Retry.FallbackDelayMS, 1000),
	}
	if c.Retry.MaxAttempts != nil && *c.Retry.MaxAttempts >= 0 {
		r.MaxAttempts = *c.Retry.MaxAttempts
	}
	return r
}

// Stats thresholds with defaults applied.
type Stats struct {
	Eligibility   time.Duration
	MinReportable time.Duration
	Timeout       time.Duration
	Reconcile     time.Duration
}

// GetStatsConfig returns the stats configuration with defaults applied.
func (c *Config) GetStatsConfig() Stats {
	return Stats{
		Eligibility:   seconds(c.Stats.EligibilitySeconds, 90),
		MinReportable: seconds(c.Stats.MinReportableSeconds, 30),
		Timeout:       millis(c.Stats.TimeoutMS, 2500),
		Reconcile:     seconds(c.Stats.ReconcileSeconds, 300),
	}
}

// KeepAlive settings with defaults applied.
type KeepAlive struct {
	Interval time.Duration
	WakeLock bool
}

// GetKeepAliveConfig returns the keep-alive configuration with defaults applied.
func (c *Config) GetKeepAliveConfig() KeepAlive {
	k := KeepAlive{
		Interval: seconds(c.KeepAlive.IntervalSeconds, 10),
		WakeLock: true,
	}
	if c.KeepAlive.WakeLock != nil {
		k.WakeLock = *c.KeepAlive.WakeLock
	}
	return k
}

// GetLogFile returns the log file path, defaulting to the XDG state directory.
func (c *Config) GetLogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(xdg.StateHome, "aura", "aura.log")
}

// GetIconStyle returns the icon style, defaulting to unicode.
func (c *Config) GetIconStyle() string {
	switch s := strings.ToLower(strings.TrimSpace(c.UI.Icons)); s {
	case "nerd", "unicode", "none":
		return s
	default:
		return "unicode"
	}
}

func millis(v, def int) time.Duration {
	if v <= 0 {
		v = def
	}
	return time.Duration(v) * time.Millisecond
}

func seconds(v, def int) time.Duration {
	if v <= 0 {
		v = def
	}
	return time.Duration(v) * time.Second
}
