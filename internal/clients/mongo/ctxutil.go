package mongo

import (
	"context"
	"time"
)

// OpTimeout caps every repository operation.
const OpTimeout = 5 * time.Second

// repoCtx bounds a repository call to OpTimeout. A parent that is
// already canceled or carries a sooner deadline is returned as-is with
// a no-op cancel, so callers can defer cancel() unconditionally.
func repoCtx(parent context.Context) (context.Context, context.CancelFunc) {
	if parent.Err() != nil {
		return parent, func() {}
	}
	if dl, ok := parent.Deadline(); ok && time.Until(dl) <= OpTimeout {
		return parent, func() {}
	}
	return context.WithTimeout(parent, OpTimeout)
}
