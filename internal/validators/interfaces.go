// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks document writes before they reach storage.
// Values are validated against JSON schemas embedded in the binary
// (santhosh-tekuri/jsonschema).
package validators

import "context"

// Validator checks a value. Optional field names narrow the check to the
// named parts of the value.
type Validator interface {
	Validate(ctx context.Context, value any, fields ...string) error
}
