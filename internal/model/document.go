package model

import "time"

// Document describes one listable file in the document store.
// It carries no storage-specific details, so it can be used across layers (HTTP, service, storage).
type Document struct {
	Filename     string    `json:"filename"`
	Title        string    `json:"title"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}
