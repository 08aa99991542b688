// Package media forwards staged uploads to an external object store.
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrNoStore = errors.New("media store not configured")

// ObjectStore puts a local file somewhere public and returns its URL.
type ObjectStore interface {
	Put(ctx context.Context, localPath string) (string, error)
}

// Uploader is what handlers depend on.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

// Outcome receives one call per upload attempt.
type Outcome func(provider string, err error)

type Bridge struct {
	store    ObjectStore
	provider string
	observe  Outcome
}

func NewBridge(store ObjectStore, provider string, observe Outcome) *Bridge {
	return &Bridge{store: store, provider: provider, observe: observe}
}

// Upload forwards the staged file and removes it whatever the outcome.
// An error means "no image attached"; callers must not retry.
func (b *Bridge) Upload(ctx context.Context, localPath string) (string, error) {
	defer func() {
		if err := os.Remove(localPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.WithError(err).WithField("path", localPath).Warn("[Upload] could not remove staged file")
		}
	}()

	url, err := b.put(ctx, localPath)
	if b.observe != nil {
		b.observe(b.provider, err)
	}
	if err != nil {
		log.WithError(err).WithField("provider", b.provider).Error("[Upload] upload failed")
		return "", err
	}
	return url, nil
}

func (b *Bridge) put(ctx context.Context, localPath string) (string, error) {
	if b.store == nil {
		return "", ErrNoStore
	}
	url, err := b.store.Put(ctx, localPath)
	if err != nil {
		return "", fmt.Errorf("%s upload: %w", b.provider, err)
	}
	if url == "" {
		return "", fmt.Errorf("%s upload: empty url", b.provider)
	}
	return url, nil
}

// StagingPath returns a unique path inside dir for an uploaded file.
func StagingPath(dir, originalName string) string {
	return filepath.Join(dir, uuid.NewString()+"-"+filepath.Base(originalName))
}
