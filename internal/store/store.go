// Package store provides the memory storage interface and SQLite implementation.
package store

import (
	"context"

	"github.com/rcliao/arsip-kita/internal/model"
)

// Store defines the memory storage interface.
type Store interface {
	// List returns every stored memory, newest first.
	List(ctx context.Context) ([]model.Memory, error)

	// Put stores a memory, overwriting any existing record with the same ID.
	Put(ctx context.Context, m model.Memory) error

	// Delete removes a memory by ID. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id string) error

	// Close closes the store.
	Close() error
}
