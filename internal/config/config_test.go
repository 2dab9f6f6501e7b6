package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "5055" {
		t.Errorf("Expected default port '5055', got '%s'", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", cfg.LogLevel)
	}
	if cfg.CacheTTL != 24*time.Hour {
		t.Errorf("Expected default cache TTL 24h, got %v", cfg.CacheTTL)
	}
	if cfg.CacheSweepInterval != CacheSweep {
		t.Errorf("Expected default sweep interval %v, got %v", CacheSweep, cfg.CacheSweepInterval)
	}
	if cfg.LLMTimeout != CompletionRequest {
		t.Errorf("Expected default LLM timeout %v, got %v", CompletionRequest, cfg.LLMTimeout)
	}
	if cfg.MetricsUsername != "prometheus" {
		t.Errorf("Expected default metrics username 'prometheus', got '%s'", cfg.MetricsUsername)
	}
	if cfg.SenderRateBurst != 15.0 {
		t.Errorf("Expected default sender burst 15, got %v", cfg.SenderRateBurst)
	}
	if cfg.LLMRateBurst != 5.0 {
		t.Errorf("Expected default LLM burst 5, got %v", cfg.LLMRateBurst)
	}
	if cfg.LLMRateRefillPerSec != 0.2 {
		t.Errorf("Expected default LLM refill 0.2, got %v", cfg.LLMRateRefillPerSec)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(EnvPort, "8080")
	t.Setenv(EnvCacheTTL, "1h")
	t.Setenv(EnvGeminiAPIKey, "test-key")
	t.Setenv(EnvGeminiModels, "gemini-2.5-pro, gemini-2.5-flash")
	t.Setenv(EnvAnswerDenylist, `\bfoo\b,\bbar\b`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("Expected cache TTL 1h, got %v", cfg.CacheTTL)
	}
	if !cfg.HasLLMProvider() {
		t.Error("Expected HasLLMProvider() to be true with a Gemini key set")
	}
	if len(cfg.GeminiModels) != 2 || cfg.GeminiModels[1] != "gemini-2.5-flash" {
		t.Errorf("Expected trimmed model list, got %v", cfg.GeminiModels)
	}
	if len(cfg.AnswerDenylist) != 2 {
		t.Errorf("Expected 2 denylist patterns, got %v", cfg.AnswerDenylist)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv(EnvCacheTTL, "not-a-duration")
	t.Setenv(EnvSenderRateBurst, "not-a-float")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.CacheTTL != 24*time.Hour {
		t.Errorf("Expected malformed TTL to fall back to 24h, got %v", cfg.CacheTTL)
	}
	if cfg.SenderRateBurst != 15.0 {
		t.Errorf("Expected malformed burst to fall back to 15, got %v", cfg.SenderRateBurst)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:        "missing port",
			mutate:      func(c *Config) { c.Port = "" },
			wantErr:     true,
			errContains: EnvPort,
		},
		{
			name:        "non-positive cache TTL",
			mutate:      func(c *Config) { c.CacheTTL = 0 },
			wantErr:     true,
			errContains: EnvCacheTTL,
		},
		{
			name:        "negative LLM timeout",
			mutate:      func(c *Config) { c.LLMTimeout = -time.Second },
			wantErr:     true,
			errContains: EnvLLMTimeout,
		},
		{
			name:        "non-positive LLM rate burst",
			mutate:      func(c *Config) { c.LLMRateBurst = 0 },
			wantErr:     true,
			errContains: EnvLLMRateBurst,
		},
		{
			name:        "sample rate above one",
			mutate:      func(c *Config) { c.SentrySampleRate = 1.5 },
			wantErr:     true,
			errContains: EnvSentrySampleRate,
		},
		{
			name: "multiple errors joined",
			mutate: func(c *Config) {
				c.Port = ""
				c.CacheTTL = 0
			},
			wantErr:     true,
			errContains: EnvCacheTTL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:                   "5055",
				CacheTTL:               24 * time.Hour,
				CacheSweepInterval:     time.Hour,
				LLMTimeout:             CompletionRequest,
				WeatherTimeout:         WeatherRequest,
				SenderRateBurst:        15,
				SenderRateRefillPerSec: 0.5,
				LLMRateBurst:           5,
				LLMRateRefillPerSec:    0.2,
				SentrySampleRate:       1.0,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("Validate() error %q does not mention %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestHasWeather(t *testing.T) {
	cfg := &Config{}
	if cfg.HasWeather() {
		t.Error("HasWeather() = true without an API key")
	}
	cfg.OpenWeatherAPIKey = "key"
	if !cfg.HasWeather() {
		t.Error("HasWeather() = false with an API key")
	}
}
