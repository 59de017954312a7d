package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Package storage contains read-only abstractions over the document store: a local directory
// by default, or an S3-compatible bucket. Implementations stream content and never buffer whole files.

// ErrNotExist is returned when a key does not name a readable regular object.
var ErrNotExist = errors.New("object does not exist")

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Storage is the document store seen by the service layer.
// Keys are plain names relative to the store root; callers validate them beforehand.
type Storage interface {
	// List returns the keys of the entries directly under the root, without recursing.
	// A missing root is not an error: List returns no keys.
	List(ctx context.Context) ([]string, error)
	// Stat returns metadata for a key, or ErrNotExist.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Ping reports whether the store can currently be read.
	Ping(ctx context.Context) error
}
