package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, ctx context.Context) {
	t.Helper()
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not canceled in time")
	}
}

func TestCombineContextCancelsWithSecondary(t *testing.T) {
	parent, parentCancel := context.WithCancel(context.Background())
	defer parentCancel()
	secondary, secondaryCancel := context.WithCancel(context.Background())

	combined, cancel := CombineContext(parent, secondary)
	defer cancel()

	require.NoError(t, combined.Err())
	secondaryCancel()
	waitDone(t, combined)
}

func TestCombineContextCancelsWithParent(t *testing.T) {
	parent, parentCancel := context.WithCancel(context.Background())
	secondary, secondaryCancel := context.WithCancel(context.Background())
	defer secondaryCancel()

	combined, cancel := CombineContext(parent, secondary)
	defer cancel()

	parentCancel()
	waitDone(t, combined)
	assert.Error(t, combined.Err())
}

func TestCombineContextExplicitCancel(t *testing.T) {
	combined, cancel := CombineContext(context.Background(), context.Background())
	cancel()
	waitDone(t, combined)
}
