// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidUnitID    = errors.New("invalid unit id")
	ErrInvalidKind      = errors.New("invalid document kind")
	ErrInvalidBody      = errors.New("document body does not match schema")
	ErrDuplicateItemID  = errors.New("duplicate item id")
	ErrInvalidHash      = errors.New("hash does not match document body")
	ErrInvalidVersion   = errors.New("invalid base version")
	ErrBodyIsNotDecoded = errors.New("document body cannot be decoded")
)
