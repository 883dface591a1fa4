// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package syncstate

import "errors"

// ErrInvalidMeta is returned by Restore for persisted state that violates the
// Dirty/fork-point invariant.
var ErrInvalidMeta = errors.New("invalid sync meta")
