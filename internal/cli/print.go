// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// print writes v as indented JSON with --format json, otherwise the text
// produced by render.
func (o *RootOptions) print(w io.Writer, v any, render func(w io.Writer) string) error {
	if o.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprint(w, render(w))
	return err
}
