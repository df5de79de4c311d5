package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hostfetch/hostfetch/internal/engine/types"
)

// DefaultDownloadDir is relative to the working directory.
const DefaultDownloadDir = "downloads"

// DefaultKeepLogs is how many debug log files survive a cleanup.
const DefaultKeepLogs = 5

type GeneralSettings struct {
	DownloadDir   string `yaml:"download_dir"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

type TransferSettings struct {
	ResolveTimeout      time.Duration `yaml:"resolve_timeout"`
	ChunkSize           int           `yaml:"chunk_size"`
	SpeedSampleInterval time.Duration `yaml:"speed_sample_interval"`
	IdleTimeout         time.Duration `yaml:"idle_timeout"`
	UserAgent           string        `yaml:"user_agent"`
}

type ResolverSettings struct {
	ButtonID string `yaml:"button_id"`
}

type LoggingSettings struct {
	KeepLogs int `yaml:"keep_logs"`
}

// Settings is the on-disk configuration.
type Settings struct {
	General  GeneralSettings  `yaml:"general"`
	Transfer TransferSettings `yaml:"transfer"`
	Resolver ResolverSettings `yaml:"resolver"`
	Logging  LoggingSettings  `yaml:"logging"`
}

func DefaultSettings() *Settings {
	return &Settings{
		General: GeneralSettings{
			DownloadDir:   DefaultDownloadDir,
			MaxConcurrent: types.DefaultMaxConcurrent,
		},
		Transfer: TransferSettings{
			ResolveTimeout:      types.DefaultResolveTimeout,
			ChunkSize:           types.DefaultChunkSize,
			SpeedSampleInterval: types.DefaultSpeedSampleInterval,
			IdleTimeout:         types.DefaultIdleTimeout,
			UserAgent:           types.DefaultUserAgent,
		},
		Resolver: ResolverSettings{
			ButtonID: types.DefaultButtonID,
		},
		Logging: LoggingSettings{
			KeepLogs: DefaultKeepLogs,
		},
	}
}

// LoadSettings reads settings.yaml. A missing file yields the defaults; keys
// absent from the file keep their default values.
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(GetSettingsPath())
}

func LoadSettingsFrom(path string) (*Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	s.Normalize()
	return s, nil
}

// SaveSettings writes s to settings.yaml.
func SaveSettings(s *Settings) error {
	return SaveSettingsTo(GetSettingsPath(), s)
}

func SaveSettingsTo(path string, s *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Normalize replaces invalid values with defaults and clamps the
// concurrency limit to [1, MaxConcurrentLimit].
func (s *Settings) Normalize() {
	d := DefaultSettings()
	if s.General.DownloadDir == "" {
		s.General.DownloadDir = d.General.DownloadDir
	}
	s.General.MaxConcurrent = ClampConcurrency(s.General.MaxConcurrent)
	if s.Transfer.ResolveTimeout <= 0 {
		s.Transfer.ResolveTimeout = d.Transfer.ResolveTimeout
	}
	if s.Transfer.ChunkSize <= 0 {
		s.Transfer.ChunkSize = d.Transfer.ChunkSize
	}
	if s.Transfer.SpeedSampleInterval <= 0 {
		s.Transfer.SpeedSampleInterval = d.Transfer.SpeedSampleInterval
	}
	if s.Transfer.IdleTimeout <= 0 {
		s.Transfer.IdleTimeout = d.Transfer.IdleTimeout
	}
	if s.Transfer.UserAgent == "" {
		s.Transfer.UserAgent = d.Transfer.UserAgent
	}
	if s.Resolver.ButtonID == "" {
		s.Resolver.ButtonID = d.Resolver.ButtonID
	}
	if s.Logging.KeepLogs <= 0 {
		s.Logging.KeepLogs = d.Logging.KeepLogs
	}
}

// ClampConcurrency bounds n to [1, MaxConcurrentLimit]; zero or negative
// values become the default.
func ClampConcurrency(n int) int {
	if n <= 0 {
		return types.DefaultMaxConcurrent
	}
	if n > types.MaxConcurrentLimit {
		return types.MaxConcurrentLimit
	}
	return n
}

// ToRuntimeConfig converts the transfer-related settings for the engine.
func (s *Settings) ToRuntimeConfig() *types.RuntimeConfig {
	return &types.RuntimeConfig{
		ResolveTimeout:      s.Transfer.ResolveTimeout,
		ChunkSize:           s.Transfer.ChunkSize,
		SpeedSampleInterval: s.Transfer.SpeedSampleInterval,
		IdleTimeout:         s.Transfer.IdleTimeout,
		UserAgent:           s.Transfer.UserAgent,
		ButtonID:            s.Resolver.ButtonID,
	}
}
