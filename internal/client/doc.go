// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client assembles the client process: local cache, remote store,
// the sync coordinator and its background workers.
package client
