// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	getCachedDocument = `
		SELECT body, hash, updated_at
		FROM documents
		WHERE unit_id = ? AND kind = ?;`

	saveCachedDocument = `
		INSERT INTO documents (unit_id, kind, body, hash, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (unit_id, kind) DO UPDATE SET
			body = excluded.body,
			hash = excluded.hash,
			updated_at = excluded.updated_at;`

	deleteCachedDocument = `
		DELETE FROM documents
		WHERE unit_id = ? AND kind = ?;`

	getSyncMeta = `
		SELECT dirty, base_body, base_hash, last_server_hash, server_version
		FROM sync_meta
		WHERE unit_id = ? AND kind = ?;`

	saveSyncMeta = `
		INSERT INTO sync_meta (unit_id, kind, dirty, base_body, base_hash, last_server_hash, server_version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (unit_id, kind) DO UPDATE SET
			dirty = excluded.dirty,
			base_body = excluded.base_body,
			base_hash = excluded.base_hash,
			last_server_hash = excluded.last_server_hash,
			server_version = excluded.server_version;`

	deleteSyncMeta = `
		DELETE FROM sync_meta
		WHERE unit_id = ? AND kind = ?;`

	getSetting = `
		SELECT value
		FROM settings
		WHERE key = ?;`

	putSetting = `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at;`

	deleteSetting = `
		DELETE FROM settings
		WHERE key = ?;`
)
