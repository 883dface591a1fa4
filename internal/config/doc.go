// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config loads, merges and validates configuration for the tasksync
// server and client.
//
// Configuration is assembled from several layers; the first layer that sets
// a field wins:
//   - server: environment variables, command-line flags, config file, defaults;
//   - client: cobra flag overrides, environment variables, config file,
//     defaults.
//
// The config file is JSON, or YAML when its name ends in .yaml or .yml.
//
// The entry points are [GetStructuredConfig] for the server and
// [GetClientConfig] for the client.
package config
