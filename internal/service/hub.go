// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sync"

	"github.com/MKhiriev/go-task-sync/models"
)

type hubKey struct {
	unitID string
	kind   models.DocumentKind
}

type subscriber struct {
	ch chan models.Document
}

// Hub fans accepted writes out to in-process subscribers of the same
// document. A subscriber holds at most one pending document: a slow reader
// only ever sees the latest value.
type Hub struct {
	mu   sync.Mutex
	subs map[hubKey]map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[hubKey]map[*subscriber]struct{})}
}

// Subscribe registers a subscriber for one document. The returned cancel
// func unregisters it and closes the channel; it is safe to call twice.
func (h *Hub) Subscribe(unitID string, kind models.DocumentKind) (<-chan models.Document, func()) {
	key := hubKey{unitID: unitID, kind: kind}
	sub := &subscriber{ch: make(chan models.Document, 1)}

	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[*subscriber]struct{})
	}
	h.subs[key][sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			delete(h.subs[key], sub)
			if len(h.subs[key]) == 0 {
				delete(h.subs, key)
			}
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Publish delivers doc to every subscriber of its document, replacing a
// pending undelivered value. It never blocks.
func (h *Hub) Publish(doc models.Document) {
	key := hubKey{unitID: doc.UnitID, kind: doc.Kind}

	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[key] {
		select {
		case sub.ch <- doc:
			continue
		default:
		}
		// full: drop the stale value, publishers are serialized by mu
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- doc
	}
}

// Subscribers returns the number of live subscribers of a document.
func (h *Hub) Subscribers(unitID string, kind models.DocumentKind) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[hubKey{unitID: unitID, kind: kind}])
}
