// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the REST and websocket transport of the document
// server.
//
// Routes expose one versioned JSON document per (unit, kind) pair. Request
// tracing, access logging, response compression and the content hash check
// of uploaded documents are handled here before requests reach the service
// layer.
package http
