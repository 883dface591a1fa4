// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the layout of a configuration file. The same keys are read
// from JSON and from YAML files.
type fileConfig struct {
	App struct {
		Version  string `json:"version" yaml:"version"`
		LogLevel string `json:"log_level" yaml:"log_level"`
		LogFile  string `json:"log_file" yaml:"log_file"`
	} `json:"app" yaml:"app"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn" yaml:"dsn"`
		} `json:"db" yaml:"db"`
	} `json:"storage" yaml:"storage"`

	Server struct {
		HTTPAddress     string   `json:"http_address" yaml:"http_address"`
		RequestTimeout  Duration `json:"request_timeout" yaml:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	} `json:"server" yaml:"server"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
		RetryCount     int      `json:"retry_count" yaml:"retry_count"`
	} `json:"adapter" yaml:"adapter"`

	Workers struct {
		PingInterval Duration `json:"ping_interval" yaml:"ping_interval"`
		SyncInterval Duration `json:"sync_interval" yaml:"sync_interval"`
	} `json:"workers" yaml:"workers"`

	Sync struct {
		UnitID      string `json:"unit_id" yaml:"unit_id"`
		PushRetries int    `json:"push_retries" yaml:"push_retries"`
	} `json:"sync" yaml:"sync"`
}

// parseFile reads a configuration file. Files ending in .yaml or .yml are
// decoded as YAML, anything else as JSON.
func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	return fc.structured(), nil
}

func (fc *fileConfig) structured() *StructuredConfig {
	cfg := &StructuredConfig{}

	cfg.App.Version = fc.App.Version
	cfg.App.LogLevel = fc.App.LogLevel
	cfg.App.LogFile = fc.App.LogFile

	cfg.Storage.DB.DSN = fc.Storage.DB.DSN

	cfg.Server.HTTPAddress = fc.Server.HTTPAddress
	cfg.Server.RequestTimeout = time.Duration(fc.Server.RequestTimeout)
	cfg.Server.ShutdownTimeout = time.Duration(fc.Server.ShutdownTimeout)

	cfg.Adapter.HTTPAddress = fc.Adapter.HTTPAddress
	cfg.Adapter.RequestTimeout = time.Duration(fc.Adapter.RequestTimeout)
	cfg.Adapter.RetryCount = fc.Adapter.RetryCount

	cfg.Workers.PingInterval = time.Duration(fc.Workers.PingInterval)
	cfg.Workers.SyncInterval = time.Duration(fc.Workers.SyncInterval)

	cfg.Sync.UnitID = fc.Sync.UnitID
	cfg.Sync.PushRetries = fc.Sync.PushRetries

	return cfg
}

// Duration is a time.Duration written as "30s" or "1m" in config files.
// A bare JSON number is taken as nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case nil:
		return nil
	case float64:
		*d = Duration(value)
		return nil
	case string:
		return d.parse(value)
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid duration at line %d", node.Line)
	}
	return d.parse(node.Value)
}

func (d *Duration) parse(s string) error {
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
