// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package canonical produces the deterministic string form of JSON-like
// values and a fast content hash over it.
//
// The canonical form is the only serialization used for change detection:
// two values that are deeply equal up to object key order always produce the
// same string, and therefore the same hash.
package canonical

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"sort"
	"strconv"
)

// Tokens for the two "no value" cases.
const (
	NullToken      = "null"
	UndefinedToken = "undefined"
)

type undefined struct{}

// Undefined marks an absent value. Object keys holding Undefined are omitted;
// anywhere else it renders as UndefinedToken.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined marker.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// maxSafeInteger is the largest integer a float64 represents exactly (2^53).
const maxSafeInteger = 1 << 53

// Canonicalize returns the canonical form of v.
//
// Supported inputs are nil, Undefined, bool, string, every integer and float
// kind, json.Number, json.RawMessage, []any, map[string]any and anything
// encoding/json can marshal (structs, typed slices and maps), which is
// projected through its JSON form first. Inputs must be acyclic.
func Canonicalize(v any) string {
	var buf bytes.Buffer
	write(&buf, v)
	return buf.String()
}

// Equal reports whether a and b have the same canonical form.
func Equal(a, b any) bool {
	return Canonicalize(a) == Canonicalize(b)
}

func write(buf *bytes.Buffer, v any) {
	switch val := v.(type) {
	case nil:
		buf.WriteString(NullToken)
	case undefined:
		buf.WriteString(UndefinedToken)
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case string:
		writeString(buf, val)
	case json.Number:
		writeNumberLiteral(buf, val)
	case float64:
		buf.WriteString(formatFloat(val))
	case float32:
		buf.WriteString(formatFloat(float64(val)))
	case int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int8:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int16:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int32:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case uint:
		buf.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint8:
		buf.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint16:
		buf.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint32:
		buf.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(val, 10))
	case []any:
		writeArray(buf, val)
	case map[string]any:
		writeObject(buf, val)
	case json.RawMessage:
		writeProjected(buf, []byte(val))
	default:
		writeReflected(buf, v)
	}
}

func writeArray(buf *bytes.Buffer, arr []any) {
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		write(buf, elem)
	}
	buf.WriteByte(']')
}

func writeObject(buf *bytes.Buffer, obj map[string]any) {
	keys := make([]string, 0, len(obj))
	for k, v := range obj {
		if IsUndefined(v) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(buf, k)
		buf.WriteByte(':')
		write(buf, obj[k])
	}
	buf.WriteByte('}')
}

// writeString quotes s with standard JSON escaping, without HTML escaping.
func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	// Encoding a string never fails.
	_ = enc.Encode(s)
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
}

// writeNumberLiteral renders a decoded JSON number so that 1, 1.0 and 1e0
// share one canonical form.
func writeNumberLiteral(buf *bytes.Buffer, n json.Number) {
	if i, err := n.Int64(); err == nil {
		buf.WriteString(strconv.FormatInt(i, 10))
		return
	}
	f, err := n.Float64()
	if err != nil {
		buf.WriteString(n.String())
		return
	}
	buf.WriteString(formatFloat(f))
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NullToken
	}
	if f == math.Trunc(f) && math.Abs(f) <= maxSafeInteger {
		return strconv.FormatInt(int64(f), 10)
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// writeReflected handles typed values (structs, typed slices and maps,
// pointers) by canonicalizing their JSON projection.
func writeReflected(buf *bytes.Buffer, v any) {
	rv := reflect.ValueOf(v)
	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		buf.WriteString(NullToken)
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		// Non-JSON values are out of contract; fall back to an opaque but
		// stable token so hashing stays total.
		writeString(buf, "!unsupported:"+rv.Type().String())
		return
	}
	writeProjected(buf, data)
}

func writeProjected(buf *bytes.Buffer, data []byte) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		writeString(buf, "!invalid-json")
		return
	}
	write(buf, generic)
}
