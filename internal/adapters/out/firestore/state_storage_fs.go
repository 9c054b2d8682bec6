// internal/adapters/out/firestore/state_storage_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StateStorageFS keeps the persisted client snapshot in Firestore so one
// profile can follow the user across machines.
//
// - collection: configurable (default "storefront_state")
// - docId: <profile>__<key>
// - fields: value(bytes), updatedAt
type StateStorageFS struct {
	Client     *firestore.Client
	Collection string
	Profile    string
}

func NewStateStorageFS(client *firestore.Client, collection, profile string) *StateStorageFS {
	collection = strings.TrimSpace(collection)
	if collection == "" {
		collection = "storefront_state"
	}
	profile = strings.TrimSpace(profile)
	if profile == "" {
		profile = "default"
	}
	return &StateStorageFS{Client: client, Collection: collection, Profile: profile}
}

type stateDoc struct {
	Value     []byte    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updatedAt,serverTimestamp"`
}

func (s *StateStorageFS) doc(key string) *firestore.DocumentRef {
	id := s.Profile + "__" + strings.NewReplacer("/", "_", ":", "_").Replace(key)
	return s.Client.Collection(s.Collection).Doc(id)
}

func (s *StateStorageFS) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil || s.Client == nil {
		return nil, false, errors.New("state_storage_fs: firestore client is nil")
	}
	snap, err := s.doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("state_storage_fs: get %s: %w", key, err)
	}
	var d stateDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, false, fmt.Errorf("state_storage_fs: decode %s: %w", key, err)
	}
	return d.Value, true, nil
}

func (s *StateStorageFS) Set(ctx context.Context, key string, value []byte) error {
	if s == nil || s.Client == nil {
		return errors.New("state_storage_fs: firestore client is nil")
	}
	if _, err := s.doc(key).Set(ctx, stateDoc{Value: value}); err != nil {
		return fmt.Errorf("state_storage_fs: set %s: %w", key, err)
	}
	return nil
}
