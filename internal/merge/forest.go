// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package merge reconciles a local and a server copy of a document against
// their common fork point.
//
// Forest merges task trees item by item, aligned by id. Memo merges the
// free-text memo as a single scalar. Both are pure: they never mutate their
// inputs and always resolve conflicts deterministically (server wins).
//
// Structural policy for trees:
//
//   - an item added on one side is kept;
//   - an item deleted on one side is dropped unless the other side edited
//     it (its fields, its parent, or anything added, changed or reordered
//     below it), in which case it is kept and reported as kept-edited.
//     Children the other side only moved away or removed do not count as
//     edits of the deleted item;
//   - an item deleted on both sides is dropped;
//   - a parent move on one side wins, concurrent different moves resolve to
//     the server parent and are reported;
//   - moves that together form a cycle are broken by placing the first
//     unreachable item at the top level; a local parent dropped that way is
//     reported;
//   - sibling order follows the side that reordered; if both reordered the
//     server order wins. Items only one side knows are inserted after their
//     nearest preceding sibling on that side.
//
// The trash bin item is always kept, even when both sides lost it, and its
// fields are merged silently.
package merge

import (
	"fmt"
	"slices"
	"sort"

	"github.com/MKhiriev/go-task-sync/internal/canonical"
	"github.com/MKhiriev/go-task-sync/models"
)

// Forest performs a three-way merge of task forests. A nil base means the
// fork point is unknown: the server value is adopted wholesale.
func Forest(base *models.Forest, local, server models.Forest) (models.MergeResult[models.Forest], error) {
	if base == nil {
		merged := server.Clone()
		if merged == nil {
			merged = models.Forest{}
		}
		return models.MergeResult[models.Forest]{Merged: merged}, nil
	}

	b, err := indexForest(*base)
	if err != nil {
		return models.MergeResult[models.Forest]{}, fmt.Errorf("base: %w", err)
	}
	l, err := indexForest(local)
	if err != nil {
		return models.MergeResult[models.Forest]{}, fmt.Errorf("local: %w", err)
	}
	s, err := indexForest(server)
	if err != nil {
		return models.MergeResult[models.Forest]{}, fmt.Errorf("server: %w", err)
	}

	m := &merger{
		base:    b,
		local:   l,
		server:  s,
		parents: make(map[string]string),
		pending: make(map[string][]models.ConflictDetail),
		placed:  make(map[string]bool),
	}
	m.resolve()

	root := m.build("")
	root = m.rescue(root)
	root = m.keepTrash(root)
	if root == nil {
		root = []models.TreeItem{}
	}

	return models.MergeResult[models.Forest]{
		Merged:          models.Forest(root),
		HasConflicts:    len(m.details) > 0,
		ConflictDetails: m.details,
	}, nil
}

// entry is one item of a flattened tree. item still points at the original
// node so subtree comparisons see its children.
type entry struct {
	item   *models.TreeItem
	parent string
}

// tree is the arena form of one side: items in display order plus id and
// per-parent child lookups. The root's children are keyed by "".
type tree struct {
	arena    []entry
	byID     map[string]int
	children map[string][]string
}

func indexForest(f models.Forest) (*tree, error) {
	t := &tree{
		byID:     make(map[string]int),
		children: make(map[string][]string),
	}

	var err error
	f.Walk(func(item *models.TreeItem, parentID string, _ int) bool {
		if item.ID == "" {
			err = fmt.Errorf("%w: item without id under %q", ErrCorruptDocument, parentID)
			return false
		}
		if _, dup := t.byID[item.ID]; dup {
			err = fmt.Errorf("%w: duplicate id %q", ErrCorruptDocument, item.ID)
			return false
		}
		t.byID[item.ID] = len(t.arena)
		t.arena = append(t.arena, entry{item: item, parent: parentID})
		t.children[parentID] = append(t.children[parentID], item.ID)
		return true
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (t *tree) get(id string) (entry, bool) {
	i, ok := t.byID[id]
	if !ok {
		return entry{}, false
	}
	return t.arena[i], true
}

type merger struct {
	base, local, server *tree

	// parents holds the resolved parent of every surviving item.
	parents map[string]string
	// pending holds structural conflicts, emitted when the item is placed.
	pending map[string][]models.ConflictDetail
	placed  map[string]bool
	details []models.ConflictDetail

	keptEdited []entry
}

// resolve decides, for every id of the three sides, whether it survives and
// under which parent.
func (m *merger) resolve() {
	seen := make(map[string]bool)
	for _, t := range []*tree{m.server, m.local, m.base} {
		for _, e := range t.arena {
			if seen[e.item.ID] {
				continue
			}
			seen[e.item.ID] = true
			m.resolveItem(e.item.ID)
		}
	}

	// A kept item keeps its whole subtree, including descendants the
	// deleting side removed together with it.
	for _, kept := range m.keptEdited {
		models.Forest(kept.item.Children).Walk(func(child *models.TreeItem, parentID string, _ int) bool {
			if _, ok := m.parents[child.ID]; ok {
				return true
			}
			if parentID == "" {
				parentID = kept.item.ID
			}
			m.parents[child.ID] = parentID
			return true
		})
	}
}

func (m *merger) resolveItem(id string) {
	b, inBase := m.base.get(id)
	l, inLocal := m.local.get(id)
	s, inServer := m.server.get(id)

	switch {
	case inLocal && inServer:
		m.parents[id] = m.resolveParent(id, b, inBase, l, s)
	case inLocal && !inBase:
		m.parents[id] = l.parent
	case inServer && !inBase:
		m.parents[id] = s.parent
	case inLocal:
		m.keepIfEdited(id, l, true)
	case inServer:
		m.keepIfEdited(id, s, false)
	}
}

func (m *merger) resolveParent(id string, b entry, inBase bool, l, s entry) string {
	switch {
	case l.parent == s.parent:
		return s.parent
	case inBase && l.parent == b.parent:
		return s.parent
	case inBase && s.parent == b.parent:
		return l.parent
	}

	if id != models.TrashID {
		m.pending[id] = append(m.pending[id], models.ConflictDetail{
			ItemID:      id,
			Field:       models.FieldParent,
			LocalValue:  parentValue(l.parent),
			ServerValue: parentValue(s.parent),
			Resolution:  models.ResolutionServerWins,
		})
	}
	return s.parent
}

// keepIfEdited handles an item that one side deleted. It survives when the
// other side changed it since the fork point.
func (m *merger) keepIfEdited(id string, survivor entry, survivorIsLocal bool) {
	if id == models.TrashID {
		m.parents[id] = survivor.parent
		return
	}
	side := m.server
	if survivorIsLocal {
		side = m.local
	}
	if !m.edited(side, id) {
		return
	}

	detail := models.ConflictDetail{
		ItemID:     id,
		Field:      models.FieldPresence,
		Resolution: models.ResolutionKeptEdited,
	}
	if survivorIsLocal {
		detail.LocalValue = survivor.item.Value
	} else {
		detail.ServerValue = survivor.item.Value
	}
	m.pending[id] = append(m.pending[id], detail)
	m.parents[id] = survivor.parent
	m.keptEdited = append(m.keptEdited, survivor)
}

// edited reports whether side changed item id or anything below it since
// the fork point. Descendants side moved elsewhere or removed are ignored.
func (m *merger) edited(side *tree, id string) bool {
	e, _ := side.get(id)
	b, inBase := m.base.get(id)
	if !inBase || b.parent != e.parent || !canonical.Equal(e.item.Fields(), b.item.Fields()) {
		return true
	}
	if reordered(m.base.children[id], side.children[id]) {
		return true
	}
	for _, child := range side.children[id] {
		if m.edited(side, child) {
			return true
		}
	}
	return false
}

func parentValue(parentID string) any {
	if parentID == "" {
		return nil
	}
	return parentID
}

// build returns the merged children of parent, or nil when there are none.
func (m *merger) build(parent string) []models.TreeItem {
	order := m.levelOrder(parent)
	if len(order) == 0 {
		return nil
	}

	out := make([]models.TreeItem, 0, len(order))
	for _, id := range order {
		if m.placed[id] {
			continue
		}
		out = append(out, m.place(id))
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (m *merger) place(id string) models.TreeItem {
	m.placed[id] = true
	m.details = append(m.details, m.pending[id]...)

	item := m.mergeFields(id)
	item.Children = m.build(id)
	return item
}

// rescue attaches survivors that are unreachable from the root, e.g. after
// concurrent moves formed a cycle, at the top level before the trash bin.
// Placing an item there drops its resolved parent; when that discards a
// local parent, it is reported.
func (m *merger) rescue(root []models.TreeItem) []models.TreeItem {
	for _, t := range []*tree{m.server, m.local} {
		for _, e := range t.arena {
			id := e.item.ID
			if _, survives := m.parents[id]; !survives || m.placed[id] {
				continue
			}
			m.reportRescue(id)
			m.parents[id] = ""
			root = insertBeforeTrash(root, m.place(id))
		}
	}
	return root
}

func (m *merger) reportRescue(id string) {
	l, inLocal := m.local.get(id)
	if !inLocal || l.parent == "" || id == models.TrashID {
		return
	}

	detail := models.ConflictDetail{
		ItemID:     id,
		Field:      models.FieldParent,
		LocalValue: parentValue(l.parent),
		Resolution: models.ResolutionMovedToTop,
	}
	if s, inServer := m.server.get(id); inServer {
		detail.ServerValue = parentValue(s.parent)
		if s.parent == "" {
			detail.Resolution = models.ResolutionServerWins
		}
	}
	// a parent conflict already recorded for id is superseded
	m.pending[id] = slices.DeleteFunc(m.pending[id], func(d models.ConflictDetail) bool {
		return d.Field == models.FieldParent
	})
	m.pending[id] = append(m.pending[id], detail)
}

// keepTrash restores the trash bin from the fork point when neither side
// still has it.
func (m *merger) keepTrash(root []models.TreeItem) []models.TreeItem {
	b, inBase := m.base.get(models.TrashID)
	if !inBase || m.placed[models.TrashID] {
		return root
	}
	m.placed[models.TrashID] = true

	bin := b.item.Clone()
	bin.Children = nil
	return append(root, bin)
}

func insertBeforeTrash(root []models.TreeItem, item models.TreeItem) []models.TreeItem {
	at := len(root)
	for i := range root {
		if root[i].IsTrash() {
			at = i
			break
		}
	}
	return slices.Insert(root, at, item)
}

func (m *merger) levelOrder(parent string) []string {
	accept := func(ids []string) []string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if p, ok := m.parents[id]; ok && p == parent && !m.placed[id] {
				out = append(out, id)
			}
		}
		return out
	}

	serverIDs := accept(m.server.children[parent])
	localIDs := accept(m.local.children[parent])

	if reordered(m.base.children[parent], m.server.children[parent]) {
		return interleave(serverIDs, localIDs)
	}
	return interleave(localIDs, serverIDs)
}

// reordered reports whether the relative order of the ids both lists share
// differs.
func reordered(base, other []string) bool {
	inBase := make(map[string]bool, len(base))
	for _, id := range base {
		inBase[id] = true
	}
	inOther := make(map[string]bool, len(other))
	for _, id := range other {
		inOther[id] = true
	}

	var a, b []string
	for _, id := range base {
		if inOther[id] {
			a = append(a, id)
		}
	}
	for _, id := range other {
		if inBase[id] {
			b = append(b, id)
		}
	}
	return !slices.Equal(a, b)
}

// interleave keeps primary's order and inserts the ids only secondary has
// right after their nearest preceding sibling in secondary.
func interleave(primary, secondary []string) []string {
	out := slices.Clone(primary)
	in := make(map[string]bool, len(out)+len(secondary))
	for _, id := range out {
		in[id] = true
	}

	prev := ""
	for _, id := range secondary {
		if in[id] {
			prev = id
			continue
		}
		at := 0
		if prev != "" {
			at = slices.Index(out, prev) + 1
		}
		out = slices.Insert(out, at, id)
		in[id] = true
		prev = id
	}
	return out
}

func (m *merger) mergeFields(id string) models.TreeItem {
	b, inBase := m.base.get(id)
	l, inLocal := m.local.get(id)
	s, inServer := m.server.get(id)

	if !inLocal || !inServer {
		survivor := s
		if inLocal {
			survivor = l
		}
		item := survivor.item.Clone()
		item.Children = nil
		return item
	}

	var baseFields map[string]any
	if inBase {
		baseFields = b.item.Fields()
	}
	localFields, serverFields := l.item.Fields(), s.item.Fields()

	merged := models.TreeItem{ID: id}
	for _, key := range fieldKeys(baseFields, localFields, serverFields) {
		lv, sv := lookup(localFields, key), lookup(serverFields, key)

		v, conflict := mergeField(lookup(baseFields, key), lv, sv)
		if conflict && id != models.TrashID {
			m.details = append(m.details, models.ConflictDetail{
				ItemID:      id,
				Field:       key,
				LocalValue:  reported(lv),
				ServerValue: reported(sv),
				Resolution:  models.ResolutionServerWins,
			})
		}

		if canonical.IsUndefined(v) {
			continue
		}
		if key == models.KeyValue {
			merged.Value, _ = v.(string)
			continue
		}
		if merged.Attrs == nil {
			merged.Attrs = make(map[string]any)
		}
		merged.Attrs[key] = models.CloneValue(v)
	}
	return merged
}

// mergeField applies the leaf-field rules. Missing fields are Undefined.
func mergeField(base, local, server any) (any, bool) {
	localChanged := !canonical.Equal(local, base)
	serverChanged := !canonical.Equal(server, base)

	switch {
	case !serverChanged:
		return local, false
	case !localChanged:
		return server, false
	case canonical.Equal(local, server):
		return server, false
	default:
		return server, true
	}
}

// fieldKeys returns "value" first, then every other field name sorted.
func fieldKeys(sides ...map[string]any) []string {
	set := make(map[string]struct{})
	for _, fields := range sides {
		for k := range fields {
			if k != models.KeyValue {
				set[k] = struct{}{}
			}
		}
	}
	keys := make([]string, 0, len(set)+1)
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return append([]string{models.KeyValue}, keys...)
}

func lookup(fields map[string]any, key string) any {
	if v, ok := fields[key]; ok {
		return v
	}
	return canonical.Undefined
}

func reported(v any) any {
	if canonical.IsUndefined(v) {
		return nil
	}
	return v
}
