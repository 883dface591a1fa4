// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
)

// configBuilder stacks configuration layers. mergo only fills zero fields,
// so a layer added earlier takes precedence over every later one.
type configBuilder struct {
	layers []*StructuredConfig
	err    error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{layers: make([]*StructuredConfig, 0, 5)}
}

func (b *configBuilder) add(cfg *StructuredConfig, err error) *configBuilder {
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	if cfg != nil {
		b.layers = append(b.layers, cfg)
	}
	return b
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("load config: %w", b.err)
	}

	out := new(StructuredConfig)
	for _, layer := range b.layers {
		if err := mergo.Merge(out, layer); err != nil {
			return nil, fmt.Errorf("merge config layers: %w", err)
		}
	}
	return out, nil
}

// withConfig adds an explicit layer, e.g. values from cobra flags.
func (b *configBuilder) withConfig(cfg *StructuredConfig) *configBuilder {
	return b.add(cfg, nil)
}

func (b *configBuilder) withEnv() *configBuilder {
	return b.add(parseEnv())
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	return b.add(ParseFlags(args))
}

// withJSON loads the config file named by the first layer that has one.
// The name is historical: YAML files are accepted as well.
func (b *configBuilder) withJSON() *configBuilder {
	for _, layer := range b.layers {
		if layer.JSONFilePath != "" {
			return b.add(parseFile(layer.JSONFilePath))
		}
	}
	return b
}

func (b *configBuilder) withDefaults(defaults *StructuredConfig) *configBuilder {
	return b.add(defaults, nil)
}

// parseEnv reads the env and envPrefix tags of StructuredConfig.
func parseEnv() (*StructuredConfig, error) {
	cfg, err := env.ParseAs[StructuredConfig]()
	if err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &cfg, nil
}
