package config

import (
	"time"

	"github.com/hyperjump/qpaper/internal/paper"
)

// Generation defaults.
const (
	DefaultModel     = "gemini-2.5-flash"
	DefaultAPIKeyEnv = "GOOGLE_API_KEY"
	DefaultTimeout   = 2 * time.Minute
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/qpaper/data/db/papers.db"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = "/usr/local/var/qpaper/data/indices/questions"
	}
	if cfg.Storage.OutputDir == "" {
		cfg.Storage.OutputDir = "/usr/local/var/qpaper/output"
	}
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = DefaultModel
	}
	if cfg.Generation.APIKeyEnv == "" {
		cfg.Generation.APIKeyEnv = DefaultAPIKeyEnv
	}
	if cfg.Generation.Timeout == 0 {
		cfg.Generation.Timeout = DefaultTimeout
	}
	if cfg.Institute.Name == "" {
		cfg.Institute.Name = paper.DefaultInstitute
	}
	if cfg.Institute.Program == "" {
		cfg.Institute.Program = paper.DefaultProgram
	}
	if cfg.Institute.Duration == "" {
		cfg.Institute.Duration = paper.DefaultDuration
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".yaml", ".yml"}
	}
}
