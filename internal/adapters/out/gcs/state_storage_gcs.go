// internal/adapters/out/gcs/state_storage_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
)

// StateStorageGCS keeps the persisted snapshot as one object per key.
//
// object: <prefix>/<profile>/<key>.json
type StateStorageGCS struct {
	Client  *storage.Client
	Bucket  string
	Prefix  string
	Profile string
}

func NewStateStorageGCS(client *storage.Client, bucket, profile string) *StateStorageGCS {
	p := strings.TrimSpace(profile)
	if p == "" {
		p = "default"
	}
	return &StateStorageGCS{
		Client:  client,
		Bucket:  strings.TrimSpace(bucket),
		Prefix:  "storefront-state",
		Profile: p,
	}
}

func (s *StateStorageGCS) bucketName() (string, error) {
	if s == nil || s.Client == nil {
		return "", errors.New("state_storage_gcs: GCS client is nil")
	}
	b := strings.TrimSpace(s.Bucket)
	if b == "" {
		return "", errors.New("state_storage_gcs: bucket is empty")
	}
	return b, nil
}

// objectPath builds "<prefix>/<profile>/<key>.json".
func (s *StateStorageGCS) objectPath(key string) string {
	k := strings.NewReplacer(":", "_", "/", "_").Replace(strings.TrimSpace(key))
	return strings.Trim(s.Prefix, "/") + "/" + s.Profile + "/" + k + ".json"
}

func (s *StateStorageGCS) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.bucketName()
	if err != nil {
		return nil, false, err
	}
	r, err := s.Client.Bucket(b).Object(s.objectPath(key)).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("state_storage_gcs: open %s: %w", key, err)
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, false, fmt.Errorf("state_storage_gcs: read %s: %w", key, err)
	}
	return body, true, nil
}

func (s *StateStorageGCS) Set(ctx context.Context, key string, value []byte) error {
	b, err := s.bucketName()
	if err != nil {
		return err
	}
	w := s.Client.Bucket(b).Object(s.objectPath(key)).NewWriter(ctx)
	w.ContentType = "application/json"
	w.CacheControl = "no-store"

	if _, err := w.Write(value); err != nil {
		_ = w.Close()
		return fmt.Errorf("state_storage_gcs: write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("state_storage_gcs: close %s: %w", key, err)
	}
	return nil
}
