// Package kvstore provides the durable key-value slots the storefront
// persists its state into. Every slot holds one JSON document and is written
// through after each mutation; there is a single logical writer per slot, so
// no cross-process coordination is required.
package kvstore

import "context"

// Store is the durable slot abstraction. Get reports whether the key was
// present so an absent slot can be distinguished from an empty document.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
