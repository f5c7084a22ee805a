package async

import (
	"context"
	"log/slog"
)

// Dispatcher runs a best-effort side effect. Implementations must never surface
// the task's error to the caller.
type Dispatcher func(ctx context.Context, task string, fn func(ctx context.Context) error)

// Dispatch runs fn on its own goroutine with a fresh context, since request
// contexts are recycled once the handler returns.
func Dispatch(_ context.Context, task string, fn func(ctx context.Context) error) {
	go run(context.Background(), task, fn)
}

// Inline runs fn on the caller's goroutine with the same error swallowing as
// Dispatch.
func Inline(ctx context.Context, task string, fn func(ctx context.Context) error) {
	run(ctx, task, fn)
}

func run(ctx context.Context, task string, fn func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in best-effort task", "task", task, "panic", r)
		}
	}()

	if err := fn(ctx); err != nil {
		slog.Warn("best-effort task failed", "task", task, "error", err)
	}
}
