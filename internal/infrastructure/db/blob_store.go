// Package db implements calculation persistence on top of key-value stores.
package db

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned by a BlobStore when the key holds no value.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is a namespace of opaque values addressed by key.
// Each call is a single, whole-value read, overwrite or delete.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete succeeds when the key is already absent
	Delete(ctx context.Context, key string) error
	Close() error
}
