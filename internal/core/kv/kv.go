// Package kv provides the durable key-value records the history is kept in.
package kv

import "errors"

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("kv: store closed")

// Store is a durable key-value store holding whole records.
// Get reports ok=false when the key has no record.
type Store interface {
	Get(key string) (value []byte, ok bool, err error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}
