// Package blobstore is the boundary to the external file/image storage
// collaborator. Receipt images live there; this service only passes opaque
// references around. Failures are logged and never propagated.
package blobstore

import (
	"context"
	"log/slog"
)

// Store fetches and deletes blobs by opaque reference.
type Store interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
	Delete(ctx context.Context, ref string) error
}

// DeleteAsync removes a blob on a background goroutine, logging failures.
func DeleteAsync(s Store, log *slog.Logger, ref string) {
	if s == nil || ref == "" {
		return
	}
	go func() {
		if err := s.Delete(context.Background(), ref); err != nil {
			log.Error("receipt blob deletion failed", "ref", ref, "error", err)
		}
	}()
}

// NoopStore satisfies Store when no blob backend is configured.
type NoopStore struct {
	Log *slog.Logger
}

func (s *NoopStore) Fetch(ctx context.Context, ref string) ([]byte, error) {
	s.Log.Warn("blob fetch with no storage backend configured", "ref", ref)
	return nil, nil
}

func (s *NoopStore) Delete(ctx context.Context, ref string) error {
	s.Log.Info("blob delete skipped, no storage backend configured", "ref", ref)
	return nil
}
