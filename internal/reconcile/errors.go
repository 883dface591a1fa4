// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package reconcile

import "errors"

// ErrSyncInProgress is returned when an evaluation overlaps a merge that is
// still being applied. Callers drop or requeue the trigger.
var ErrSyncInProgress = errors.New("sync already in progress")
