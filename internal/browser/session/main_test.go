package session

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// CombineContext spawns a watcher goroutine per call; make sure every
	// test path releases it.
	goleak.VerifyTestMain(m)
}
