// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "time"

// editDoneMsg reports the result of an edit or sync command.
type editDoneMsg struct {
	status string
	// selectID moves the cursor to this item after the refresh.
	selectID string
	err      error
}

// tickMsg re-reads the client state, picking up changes applied by the
// background workers.
type tickMsg time.Time
