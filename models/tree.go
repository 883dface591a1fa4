// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// TrashID is the reserved id of the permanent trash bin item. The trash bin
// lives at the top level of every forest and is never removed.
const TrashID = "trash"

// Reserved JSON keys of a tree item. Every other key is an attribute.
const (
	KeyID       = "id"
	KeyValue    = "value"
	KeyChildren = "children"
)

// Well-known attribute keys written by the clients. Attrs may hold any other
// key as well; unknown keys round-trip untouched.
const (
	AttrCompleted      = "completed"
	AttrCollapsed      = "collapsed"
	AttrTimerStartedAt = "timerStartedAt"
	AttrTimerDuration  = "timerDuration"
	AttrMemo           = "memo"
)

// TreeItem is a node of the task forest.
//
// On the wire an item is a flat JSON object: "id", "value", optional
// "children" and every attribute key side by side. Leaf fields are "value"
// plus the keys of Attrs; "id" and "children" are structural.
type TreeItem struct {
	ID       string
	Value    string
	Children []TreeItem
	Attrs    map[string]any
}

// Forest is the ordered list of top-level items, the implicit root's children.
type Forest []TreeItem

// MarshalJSON implements json.Marshaler.
func (t TreeItem) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(t.Attrs)+3)
	for k, v := range t.Attrs {
		if isReservedKey(k) {
			continue
		}
		obj[k] = v
	}
	obj[KeyID] = t.ID
	obj[KeyValue] = t.Value
	if len(t.Children) > 0 {
		obj[KeyChildren] = t.Children
	}
	return json.Marshal(obj)
}

// UnmarshalJSON implements json.Unmarshaler. Numeric ids are accepted and kept
// in their literal text form.
func (t *TreeItem) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	item := TreeItem{}

	idRaw, ok := raw[KeyID]
	if !ok {
		return ErrItemWithoutID
	}
	id, err := decodeID(idRaw)
	if err != nil {
		return err
	}
	item.ID = id

	if v, ok := raw[KeyValue]; ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		if err = json.Unmarshal(v, &item.Value); err != nil {
			return fmt.Errorf("item %s value: %w", id, err)
		}
	}

	if c, ok := raw[KeyChildren]; ok && !bytes.Equal(bytes.TrimSpace(c), []byte("null")) {
		if err = json.Unmarshal(c, &item.Children); err != nil {
			return fmt.Errorf("item %s children: %w", id, err)
		}
	}

	for k, v := range raw {
		if isReservedKey(k) {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(v))
		dec.UseNumber()
		var attr any
		if err = dec.Decode(&attr); err != nil {
			return fmt.Errorf("item %s attribute %q: %w", id, k, err)
		}
		if item.Attrs == nil {
			item.Attrs = make(map[string]any)
		}
		item.Attrs[k] = attr
	}

	*t = item
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", ErrItemWithoutID
}

func isReservedKey(k string) bool {
	return k == KeyID || k == KeyValue || k == KeyChildren
}

// IsTrash reports whether the item is the trash bin.
func (t TreeItem) IsTrash() bool {
	return t.ID == TrashID
}

// Completed returns the completion flag.
func (t TreeItem) Completed() bool {
	b, _ := t.Attrs[AttrCompleted].(bool)
	return b
}

// Collapsed returns the collapsed flag.
func (t TreeItem) Collapsed() bool {
	b, _ := t.Attrs[AttrCollapsed].(bool)
	return b
}

// SetAttr sets an attribute. A nil value removes the key.
func (t *TreeItem) SetAttr(key string, value any) {
	if value == nil {
		delete(t.Attrs, key)
		return
	}
	if t.Attrs == nil {
		t.Attrs = make(map[string]any)
	}
	t.Attrs[key] = value
}

// Fields returns the leaf fields of the item keyed by field name.
func (t TreeItem) Fields() map[string]any {
	fields := make(map[string]any, len(t.Attrs)+1)
	for k, v := range t.Attrs {
		if isReservedKey(k) {
			continue
		}
		fields[k] = v
	}
	fields[KeyValue] = t.Value
	return fields
}

// AttrKeys returns attribute keys in sorted order.
func (t TreeItem) AttrKeys() []string {
	keys := make([]string, 0, len(t.Attrs))
	for k := range t.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the item.
func (t TreeItem) Clone() TreeItem {
	out := TreeItem{ID: t.ID, Value: t.Value}
	if len(t.Attrs) > 0 {
		out.Attrs = make(map[string]any, len(t.Attrs))
		for k, v := range t.Attrs {
			out.Attrs[k] = CloneValue(v)
		}
	}
	if len(t.Children) > 0 {
		out.Children = make([]TreeItem, len(t.Children))
		for i, c := range t.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// CloneValue deep-copies a JSON-like value.
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = CloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = CloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Clone returns a deep copy of the forest.
func (f Forest) Clone() Forest {
	if f == nil {
		return nil
	}
	out := make(Forest, len(f))
	for i, item := range f {
		out[i] = item.Clone()
	}
	return out
}

// Walk visits every item depth-first in display order. parentID is empty for
// top-level items. Returning false from fn stops the walk.
func (f Forest) Walk(fn func(item *TreeItem, parentID string, depth int) bool) {
	walkItems(f, "", 0, fn)
}

func walkItems(items []TreeItem, parentID string, depth int, fn func(*TreeItem, string, int) bool) bool {
	for i := range items {
		if !fn(&items[i], parentID, depth) {
			return false
		}
		if !walkItems(items[i].Children, items[i].ID, depth+1, fn) {
			return false
		}
	}
	return true
}

// Find returns a pointer into the forest for the item with the given id.
func (f Forest) Find(id string) (*TreeItem, bool) {
	var found *TreeItem
	f.Walk(func(item *TreeItem, _ string, _ int) bool {
		if item.ID == id {
			found = item
			return false
		}
		return true
	})
	return found, found != nil
}

// EnsureTrash returns the forest with a trash bin appended when it is missing.
func (f Forest) EnsureTrash() Forest {
	for _, item := range f {
		if item.IsTrash() {
			return f
		}
	}
	return append(f, TreeItem{ID: TrashID, Value: "Trash"})
}

// InsertChild appends item under parentID. An empty parentID inserts at the
// top level, before the trash bin.
func (f Forest) InsertChild(parentID string, item TreeItem) (Forest, bool) {
	if parentID == "" {
		for i, top := range f {
			if top.IsTrash() {
				out := make(Forest, 0, len(f)+1)
				out = append(out, f[:i]...)
				out = append(out, item)
				return append(out, f[i:]...), true
			}
		}
		return append(f, item), true
	}

	parent, ok := f.Find(parentID)
	if !ok {
		return f, false
	}
	parent.Children = append(parent.Children, item)
	return f, true
}

// Remove detaches the item with the given id and returns it.
func (f Forest) Remove(id string) (Forest, TreeItem, bool) {
	items, removed, ok := removeItem(f, id)
	return Forest(items), removed, ok
}

func removeItem(items []TreeItem, id string) ([]TreeItem, TreeItem, bool) {
	for i := range items {
		if items[i].ID == id {
			removed := items[i]
			out := make([]TreeItem, 0, len(items)-1)
			out = append(out, items[:i]...)
			out = append(out, items[i+1:]...)
			return out, removed, true
		}
		children, removed, ok := removeItem(items[i].Children, id)
		if ok {
			items[i].Children = children
			if len(children) == 0 {
				items[i].Children = nil
			}
			return items, removed, true
		}
	}
	return items, TreeItem{}, false
}
