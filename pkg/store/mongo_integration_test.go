//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("DEPTIERS_MONGO_URI")
	if uri == "" {
		t.Skip("DEPTIERS_MONGO_URI not set")
	}
	ctx := context.Background()

	s, err := NewMongoStore(ctx, uri, "deptiers_test")
	require.NoError(t, err)
	defer s.Close(ctx)
	require.NoError(t, s.coll.Drop(ctx))

	testStore(t, s)
}
