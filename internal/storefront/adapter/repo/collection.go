package repo

import (
	"context"
	"encoding/json"

	"hamburgueria/internal/storefront/app/core"
	xerrors "hamburgueria/internal/xpkg/errors"
	"hamburgueria/internal/xpkg/logger"
)

// collection is a JSON array stored under one key. Values that fail to
// decode or validate are treated as absent and reset to empty.
type collection[T any] struct {
	store    core.IStore
	key      string
	validate func(T) error
	mylog    logger.Logger
}

func (c collection[T]) load(ctx context.Context) ([]T, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.mylog.Action("persistence_read_failed").Error("Failed to read collection", err, "key", c.key)
		return nil, xerrors.Persistence("read "+c.key, err)
	}
	if !ok {
		return nil, nil
	}

	items, err := c.decode(raw)
	if err != nil {
		c.reset(ctx, err)
		return nil, nil
	}
	return items, nil
}

// update runs fn on the stored items inside the store's atomic Update.
// Corrupt data is handed to fn as empty and overwritten by its result.
// An error from fn is returned unwrapped and nothing is written.
func (c collection[T]) update(ctx context.Context, fn func([]T) ([]T, error)) error {
	var fnErr error
	err := c.store.Update(ctx, c.key, func(raw []byte, _ bool) ([]byte, error) {
		items, err := c.decode(raw)
		if err != nil {
			c.mylog.Action("persistence_reset").Warn("Stored value is corrupt, replacing it", "key", c.key, "cause", err.Error())
			items = nil
		}

		next, err := fn(items)
		if err != nil {
			fnErr = err
			return nil, err
		}
		if next == nil {
			next = []T{}
		}
		return json.Marshal(next)
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		c.mylog.Action("persistence_write_failed").Error("Failed to update collection", err, "key", c.key)
		return xerrors.Persistence("update "+c.key, err)
	}
	return nil
}

func (c collection[T]) decode(raw []byte) ([]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	if c.validate != nil {
		for _, item := range items {
			if err := c.validate(item); err != nil {
				return nil, err
			}
		}
	}
	return items, nil
}

func (c collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return xerrors.Persistence("encode "+c.key, err)
	}
	if err := c.store.Set(ctx, c.key, raw); err != nil {
		c.mylog.Action("persistence_write_failed").Error("Failed to write collection", err, "key", c.key)
		return xerrors.Persistence("write "+c.key, err)
	}
	return nil
}

func (c collection[T]) reset(ctx context.Context, cause error) {
	mylog := c.mylog.Action("persistence_reset")
	mylog.Warn("Stored value is corrupt, resetting to empty", "key", c.key, "cause", cause.Error())

	if err := c.store.Set(ctx, c.key, []byte("[]")); err != nil {
		mylog.Error("Failed to reset corrupt collection", err, "key", c.key)
	}
}
