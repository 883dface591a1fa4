// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
)

// staticVersion answers the ping route with the version the server was
// started with.
type staticVersion string

// NewAppInfoService fails when the server has no version to report, which
// happens only when neither the build nor the config set one.
func NewAppInfoService(cfg config.App, log *logger.Logger) (AppInfoService, error) {
	version := strings.TrimSpace(cfg.Version)
	if version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	log.Debug().Str("func", "NewAppInfoService").Str("version", version).Msg("reporting server version")
	return staticVersion(version), nil
}

func (v staticVersion) GetAppVersion(context.Context) string {
	return string(v)
}
