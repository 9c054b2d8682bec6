package gcs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectPath(t *testing.T) {
	s := NewStateStorageGCS(nil, "bucket", "")
	assert.Equal(t, "storefront-state/default/persist_root.json", s.objectPath("persist:root"))

	s = NewStateStorageGCS(nil, "bucket", "work")
	assert.Equal(t, "storefront-state/work/persist_root.json", s.objectPath(" persist:root "))
}

func TestStateStorageGCS_RequiresClient(t *testing.T) {
	s := NewStateStorageGCS(nil, "bucket", "")
	_, _, err := s.Get(context.Background(), "persist:root")
	assert.Error(t, err)
	assert.Error(t, s.Set(context.Background(), "persist:root", []byte("{}")))
}
