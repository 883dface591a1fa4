// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package merge

import "errors"

// ErrCorruptDocument is returned when a tree violates its structural
// invariants, such as an id appearing twice.
var ErrCorruptDocument = errors.New("corrupt document")
