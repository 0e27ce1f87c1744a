package orchestration

import "context"

func withContextCancelHook(ctx context.Context, onContextDone func()) chan struct{} {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			onContextDone()
		case <-done:
		}
	}()
	return done
}

// withSessionContext derives a call context from ctx that is also cancelled
// when the session context is.
func withSessionContext(ctx, sessionCtx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := withContextCancelHook(sessionCtx, cancel)
	return ctx, func() {
		close(done)
		cancel()
	}
}
