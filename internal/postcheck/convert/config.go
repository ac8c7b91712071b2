package convert

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the conversion service settings: defaults, then an optional
// yaml file, then environment overrides, in that order.
type Config struct {
	Listen      string
	FFmpeg      string
	TempDir     string
	MaxUploadMB int
	Timeout     time.Duration
}

type configFile struct {
	Server struct {
		Listen string `yaml:"listen"`
	} `yaml:"server"`
	FFmpeg struct {
		Path           string `yaml:"path"`
		TempDir        string `yaml:"temp_dir"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"ffmpeg"`
	Upload struct {
		MaxMB int `yaml:"max_mb"`
	} `yaml:"upload"`
}

// LoadConfig reads path when it exists; a missing file just yields defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		Listen:      ":8787",
		MaxUploadMB: 2048,
		Timeout:     5 * time.Minute,
	}

	if raw, err := os.ReadFile(path); err == nil {
		var f configFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		if f.Server.Listen != "" {
			cfg.Listen = f.Server.Listen
		}
		if f.FFmpeg.Path != "" {
			cfg.FFmpeg = f.FFmpeg.Path
		}
		if f.FFmpeg.TempDir != "" {
			cfg.TempDir = f.FFmpeg.TempDir
		}
		if f.FFmpeg.TimeoutSeconds > 0 {
			cfg.Timeout = time.Duration(f.FFmpeg.TimeoutSeconds) * time.Second
		}
		if f.Upload.MaxMB > 0 {
			cfg.MaxUploadMB = f.Upload.MaxMB
		}
	}

	cfg.Listen = envOrDefault("POSTCHECK_LISTEN", cfg.Listen)
	cfg.FFmpeg = envOrDefault("POSTCHECK_FFMPEG", cfg.FFmpeg)
	cfg.TempDir = envOrDefault("POSTCHECK_TEMP_DIR", cfg.TempDir)
	cfg.MaxUploadMB = envInt("POSTCHECK_MAX_UPLOAD_MB", cfg.MaxUploadMB)
	if secs := envInt("POSTCHECK_CONVERT_TIMEOUT_SECONDS", 0); secs > 0 {
		cfg.Timeout = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
