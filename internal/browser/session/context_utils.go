package session

import (
	"context"
)

// CombineContext derives a context from parentCtx that is additionally
// canceled when secondaryCtx is done. chromedp actions must run on a context
// descending from the browser context, so the caller's per-operation context
// cannot be used directly; this bridges the two lifetimes.
func CombineContext(parentCtx, secondaryCtx context.Context) (context.Context, context.CancelFunc) {
	combinedCtx, cancel := context.WithCancel(parentCtx)

	go func() {
		select {
		case <-secondaryCtx.Done():
			cancel()
		case <-combinedCtx.Done():
		}
	}()

	return combinedCtx, cancel
}
