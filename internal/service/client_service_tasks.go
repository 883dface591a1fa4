// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/MKhiriev/go-task-sync/models"
)

// IDGenerator produces ids for new tree items.
type IDGenerator interface {
	Generate() string
}

// TaskService is the set of local edits a user can make. Every edit goes
// through the coordinator as one LocalEdit event.
type TaskService struct {
	coordinator *Coordinator
	ids         IDGenerator
}

func NewTaskService(coordinator *Coordinator, ids IDGenerator) *TaskService {
	return &TaskService{coordinator: coordinator, ids: ids}
}

// normalizeText puts user text into NFC so that the same visible string
// typed on different devices hashes the same.
func normalizeText(s string) string {
	return norm.NFC.String(s)
}

// AddItem appends a new item under parentID (top level when empty) and
// returns its id.
func (s *TaskService) AddItem(ctx context.Context, parentID, value string) (string, error) {
	value = normalizeText(strings.TrimSpace(value))
	if value == "" {
		return "", ErrEmptyValue
	}
	if parentID == models.TrashID {
		return "", ErrTrashItem
	}

	id := s.ids.Generate()
	err := s.coordinator.UpdateTasks(ctx, func(f models.Forest) (models.Forest, error) {
		out, ok := f.EnsureTrash().InsertChild(parentID, models.TreeItem{ID: id, Value: value})
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, parentID)
		}
		return out, nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *TaskService) EditValue(ctx context.Context, id, value string) error {
	value = normalizeText(strings.TrimSpace(value))
	if value == "" {
		return ErrEmptyValue
	}
	return s.updateItem(ctx, id, func(item *models.TreeItem) error {
		item.Value = value
		return nil
	})
}

func (s *TaskService) SetCompleted(ctx context.Context, id string, completed bool) error {
	return s.updateItem(ctx, id, func(item *models.TreeItem) error {
		item.SetAttr(models.AttrCompleted, completed)
		return nil
	})
}

func (s *TaskService) SetCollapsed(ctx context.Context, id string, collapsed bool) error {
	return s.updateItem(ctx, id, func(item *models.TreeItem) error {
		item.SetAttr(models.AttrCollapsed, collapsed)
		return nil
	})
}

// SetAttr sets a free-form attribute. A nil value removes it.
func (s *TaskService) SetAttr(ctx context.Context, id, key string, value any) error {
	if key == models.KeyID || key == models.KeyValue || key == models.KeyChildren || key == "" {
		return fmt.Errorf("%w: %q", ErrReservedKey, key)
	}
	if str, ok := value.(string); ok {
		value = normalizeText(str)
	}
	return s.updateItem(ctx, id, func(item *models.TreeItem) error {
		item.SetAttr(key, value)
		return nil
	})
}

// Move re-parents an item, appending it to the children of parentID (top
// level when empty).
func (s *TaskService) Move(ctx context.Context, id, parentID string) error {
	if id == models.TrashID {
		return ErrTrashItem
	}
	return s.coordinator.UpdateTasks(ctx, func(f models.Forest) (models.Forest, error) {
		item, ok := f.Find(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
		}
		if parentID == id {
			return nil, ErrMoveIntoItself
		}
		if _, inside := models.Forest(item.Children).Find(parentID); inside && parentID != "" {
			return nil, ErrMoveIntoItself
		}

		f, removed, _ := f.Remove(id)
		out, ok := f.InsertChild(parentID, removed)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, parentID)
		}
		return out, nil
	})
}

// MoveToTrash moves an item with its subtree into the trash bin.
func (s *TaskService) MoveToTrash(ctx context.Context, id string) error {
	if id == models.TrashID {
		return ErrTrashItem
	}
	return s.coordinator.UpdateTasks(ctx, func(f models.Forest) (models.Forest, error) {
		f, removed, ok := f.EnsureTrash().Remove(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
		}
		trash, _ := f.Find(models.TrashID)
		trash.Children = append(trash.Children, removed)
		return f, nil
	})
}

// EmptyTrash permanently removes everything in the trash bin.
func (s *TaskService) EmptyTrash(ctx context.Context) error {
	return s.coordinator.UpdateTasks(ctx, func(f models.Forest) (models.Forest, error) {
		f = f.EnsureTrash()
		trash, _ := f.Find(models.TrashID)
		trash.Children = nil
		return f, nil
	})
}

func (s *TaskService) SetMemo(ctx context.Context, text string) error {
	text = normalizeText(text)
	return s.coordinator.UpdateMemo(ctx, func(models.Memo) (models.Memo, error) {
		return models.Memo(text), nil
	})
}

func (s *TaskService) updateItem(ctx context.Context, id string, fn func(item *models.TreeItem) error) error {
	if id == models.TrashID {
		return ErrTrashItem
	}
	return s.coordinator.UpdateTasks(ctx, func(f models.Forest) (models.Forest, error) {
		item, ok := f.Find(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
		}
		if err := fn(item); err != nil {
			return nil, err
		}
		return f, nil
	})
}
