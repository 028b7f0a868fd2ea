//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/music",
			expected: filepath.Join(home, "music"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/srv/catalog",
			expected: "/srv/catalog",
		},
		{
			name:     "relative path unchanged",
			input:    "catalog/jazz.json",
			expected: "catalog/jazz.json",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) != 2 {
		t.Fatalf("getConfigPaths() returned %d paths, want 2", len(paths))
	}
	if want := filepath.Join(xdg.ConfigHome, "aura", "config.toml"); paths[0] != want {
		t.Errorf("first config path = %q, want %q", paths[0], want)
	}
	if paths[1] != "config.toml" {
		t.Errorf("last config path = %q, want %q", paths[1], "config.toml")
	}
}

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	base := writeConfig(t, dir, "base.toml", `
[catalog]
paths = ["/srv/catalog", "~/jazz.json"]

[playback]
fade_in_ms = 2000
volume = 0.5

[stats]
eligibility_seconds = 60

[lastfm]
api_key = "key"
api_secret = "secret"

[log]
level = " DEBUG "
`)
	override := writeConfig(t, dir, "override.toml", `
[playback]
fade_in_ms = 4000

[retry]
max_attempts = 0
`)

	cfg, err := LoadFrom(base, filepath.Join(dir, "missing.toml"), override)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if got := cfg.GetPlaybackConfig().FadeIn; got != 4*time.Second {
		t.Errorf("FadeIn = %v, want 4s (later file wins)", got)
	}
	if got := cfg.GetPlaybackConfig().Volume; got != 0.5 {
		t.Errorf("Volume = %v, want 0.5", got)
	}
	if got := cfg.GetStatsConfig().Eligibility; got != 60*time.Second {
		t.Errorf("Eligibility = %v, want 60s", got)
	}
	if got := cfg.GetRetryConfig().MaxAttempts; got != 0 {
		t.Errorf("MaxAttempts = %d, want 0", got)
	}
	if cfg.Catalog.Paths[0] != "/srv/catalog" {
		t.Errorf("Catalog.Paths[0] = %q", cfg.Catalog.Paths[0])
	}
	if home, err := os.UserHomeDir(); err == nil {
		if want := filepath.Join(home, "jazz.json"); cfg.Catalog.Paths[1] != want {
			t.Errorf("Catalog.Paths[1] = %q, want %q", cfg.Catalog.Paths[1], want)
		}
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if !cfg.HasLastfmConfig() {
		t.Error("HasLastfmConfig() = false, want true")
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "bad.toml", "[playback\nfade_in_ms = ")
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() with invalid TOML should fail")
	}
}

func TestHasLastfmConfig(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected bool
	}{
		{
			name: "both APIKey and APISecret set",
			config: Config{
				Lastfm: LastfmConfig{
					APIKey:    "my-api-key",
					APISecret: "my-api-secret",
				},
			},
			expected: true,
		},
		{
			name: "only APIKey set",
			config: Config{
				Lastfm: LastfmConfig{
					APIKey: "my-api-key",
				},
			},
			expected: false,
		},
		{
			name:     "neither set",
			config:   Config{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.HasLastfmConfig()
			if result != tt.expected {
				t.Errorf("HasLastfmConfig() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestGetPlaybackConfig_Defaults(t *testing.T) {
	cfg := Config{}
	p := cfg.GetPlaybackConfig()

	if p.FadeIn != 15*time.Second {
		t.Errorf("FadeIn = %v, want 15s", p.FadeIn)
	}
	if p.FadeOut != 8*time.Second {
		t.Errorf("FadeOut = %v, want 8s", p.FadeOut)
	}
	if p.FadeTick != 16*time.Millisecond {
		t.Errorf("FadeTick = %v, want 16ms", p.FadeTick)
	}
	if p.FadeOutWindow != 8*time.Second {
		t.Errorf("FadeOutWindow = %v, want 8s", p.FadeOutWindow)
	}
	if p.ResumeFadeWindow != 5*time.Second {
		t.Errorf("ResumeFadeWindow = %v, want 5s", p.ResumeFadeWindow)
	}
	if p.RestartThreshold != 3*time.Second {
		t.Errorf("RestartThreshold = %v, want 3s", p.RestartThreshold)
	}
	if p.Volume != 1 {
		t.Errorf("Volume = %v, want 1", p.Volume)
	}
	if p.UserAgent == "" {
		t.Error("UserAgent should have a default")
	}
	if p.MaxBytes != 64<<20 {
		t.Errorf("MaxBytes = %d, want %d", p.MaxBytes, 64<<20)
	}
	if p.TimeUpdate != 250*time.Millisecond {
		t.Errorf("TimeUpdate = %v, want 250ms", p.TimeUpdate)
	}
}

func TestGetPlaybackConfig_InvalidValues(t *testing.T) {
	cfg := Config{
		Playback: PlaybackConfig{
			FadeInMS:      -5,  // negative, should become 15000
			Volume:        1.5, // > 1, should become 1
			MaxDownloadMB: -1,  // negative, should become 64
		},
	}

	p := cfg.GetPlaybackConfig()

	if p.FadeIn != 15*time.Second {
		t.Errorf("FadeIn with invalid value = %v, want 15s", p.FadeIn)
	}
	if p.Volume != 1 {
		t.Errorf("Volume with invalid value = %v, want 1", p.Volume)
	}
	if p.MaxBytes != 64<<20 {
		t.Errorf("MaxBytes with invalid value = %d, want %d", p.MaxBytes, 64<<20)
	}
}

func TestGetRetryConfig(t *testing.T) {
	zero, three, negative := 0, 3, -1

	tests := []struct {
		name        string
		maxAttempts *int
		expected    int
	}{
		{name: "unset uses default", maxAttempts: nil, expected: 1},
		{name: "explicit zero disables retries", maxAttempts: &zero, expected: 0},
		{name: "custom value", maxAttempts: &three, expected: 3},
		{name: "negative uses default", maxAttempts: &negative, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Retry: RetryConfig{MaxAttempts: tt.maxAttempts}}
			r := cfg.GetRetryConfig()
			if r.MaxAttempts != tt.expected {
				t.Errorf("MaxAttempts = %d, want %d", r.MaxAttempts, tt.expected)
			}
			if r.Delay != 300*time.Millisecond {
				t.Errorf("Delay = %v, want 300ms", r.Delay)
			}
			if r.Fallback != time.Second {
				t.Errorf("Fallback = %v, want 1s", r.Fallback)
			}
		})
	}
}

func TestGetStatsConfig(t *testing.T) {
	s := (&Config{}).GetStatsConfig()
	if s.Eligibility != 90*time.Second {
		t.Errorf("Eligibility = %v, want 90s", s.Eligibility)
	}
	if s.MinReportable != 30*time.Second {
		t.Errorf("MinReportable = %v, want 30s", s.MinReportable)
	}
	if s.Timeout != 2500*time.Millisecond {
		t.Errorf("Timeout = %v, want 2.5s", s.Timeout)
	}
	if s.Reconcile != 5*time.Minute {
		t.Errorf("Reconcile = %v, want 5m", s.Reconcile)
	}

	custom := Config{Stats: StatsConfig{EligibilitySeconds: 45, MinReportableSeconds: 10}}
	s = custom.GetStatsConfig()
	if s.Eligibility != 45*time.Second || s.MinReportable != 10*time.Second {
		t.Errorf("custom stats = %+v", s)
	}
}

func TestGetKeepAliveConfig(t *testing.T) {
	k := (&Config{}).GetKeepAliveConfig()
	if k.Interval != 10*time.Second {
		t.Errorf("Interval = %v, want 10s", k.Interval)
	}
	if !k.WakeLock {
		t.Error("WakeLock should default to true")
	}

	off := false
	k = (&Config{KeepAlive: KeepAliveConfig{IntervalSeconds: 30, WakeLock: &off}}).GetKeepAliveConfig()
	if k.Interval != 30*time.Second || k.WakeLock {
		t.Errorf("custom keepalive = %+v", k)
	}
}

func TestGetLogFile(t *testing.T) {
	if got, want := (&Config{}).GetLogFile(), filepath.Join(xdg.StateHome, "aura", "aura.log"); got != want {
		t.Errorf("GetLogFile() = %q, want %q", got, want)
	}
	cfg := Config{Log: LogConfig{File: "/tmp/aura.log"}}
	if got := cfg.GetLogFile(); got != "/tmp/aura.log" {
		t.Errorf("GetLogFile() = %q, want /tmp/aura.log", got)
	}
}

func TestGetIconStyle(t *testing.T) {
	tests := map[string]string{
		"":        "unicode",
		"nerd":    "nerd",
		" NONE ":  "none",
		"unicode": "unicode",
		"fancy":   "unicode",
	}
	for in, want := range tests {
		cfg := Config{UI: UIConfig{Icons: in}}
		if got := cfg.GetIconStyle(); got != want {
			t.Errorf("GetIconStyle(%q) = %q, want %q", in, got, want)
		}
	}
}
