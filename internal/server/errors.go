// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// ErrNothingToServe is returned by NewServer when no HTTP router or listen
// address was given.
var ErrNothingToServe = errors.New("server: no router or listen address")
