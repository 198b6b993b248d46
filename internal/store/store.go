package store

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("store: artifact not found")

// Artifact is a downloadable file kept for a short while after a run.
type Artifact struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Store is a short-lived key/value cache for uploads and run artifacts.
// Entries expire after the store's TTL; nothing is persisted.
type Store interface {
	Put(ctx context.Context, key string, a Artifact) error
	Get(ctx context.Context, key string) (Artifact, error)
	TTL() time.Duration
}

func UploadKey(id string) string {
	return "reviewcloud:upload:" + id
}

func ArtifactKey(runID, name string) string {
	return "reviewcloud:run:" + runID + ":" + name
}
