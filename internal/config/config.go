// Package config loads the application configuration from a YAML file,
// falling back to built-in defaults when the file is absent.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for every tunable. They mirror the shipped configuration: 5 MiB
// upload cap, 5000-character segments, 100-character stream chunks.
const (
	DefaultMaxUploadBytes   = 5 << 20
	DefaultSegmentSize      = 5000
	DefaultChunkSize        = 100
	DefaultChunkDelayMs     = 50
	DefaultReasoningDelayMs = 200
)

// LibraryConfig bounds uploads and controls segmentation.
type LibraryConfig struct {
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
	SegmentSize    int   `yaml:"segment_size"`
}

// StreamingConfig shapes the simulated typing of the streaming adapter.
type StreamingConfig struct {
	ChunkSize        int `yaml:"chunk_size"`
	ChunkDelayMs     int `yaml:"chunk_delay_ms"`
	ReasoningDelayMs int `yaml:"reasoning_delay_ms"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Library   LibraryConfig   `yaml:"library"`
	Streaming StreamingConfig `yaml:"streaming"`
}

// Load reads a config from the specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Library.MaxUploadBytes == 0 {
		cfg.Library.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Library.SegmentSize == 0 {
		cfg.Library.SegmentSize = DefaultSegmentSize
	}
	if cfg.Streaming.ChunkSize == 0 {
		cfg.Streaming.ChunkSize = DefaultChunkSize
	}
	if cfg.Streaming.ChunkDelayMs == 0 {
		cfg.Streaming.ChunkDelayMs = DefaultChunkDelayMs
	}
	if cfg.Streaming.ReasoningDelayMs == 0 {
		cfg.Streaming.ReasoningDelayMs = DefaultReasoningDelayMs
	}
}
