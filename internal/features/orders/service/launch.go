package service

import (
	"context"

	"sales-manager/internal/core/failure"
	"sales-manager/internal/core/viewstate"

	"go.uber.org/zap"
)

// run publishes Loading on the caller's goroutine, then performs call on the
// scope and publishes its outcome. A closed scope leaves the stream untouched. Earlier invocations are not cancelled, so
// whichever call returns last decides the terminal state.
func run[T any](
	scope *viewstate.Scope,
	stream *viewstate.Stream[T],
	log *zap.Logger,
	op string,
	fallback string,
	call func(ctx context.Context) (T, error),
) *viewstate.Job {
	loading := func() { stream.Publish(viewstate.Loading[T]()) }

	return scope.Start(loading, func(ctx context.Context) {
		data, err := call(ctx)
		if err != nil {
			log.Warn("Gateway call failed",
				zap.String("operation", op),
				zap.String("cause", string(failure.CauseOf(err))),
				zap.Error(err),
			)
			stream.Publish(viewstate.Failed[T](failure.PersistenceMessage(err, fallback)))
			return
		}
		stream.Publish(viewstate.Success(data))
	})
}

// deleted is the payload of a successful delete.
type deleted = struct{}
