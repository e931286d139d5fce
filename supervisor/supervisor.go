// Package supervisor spawns every long-running component as a critical
// task: the first one to return an error cancels all the others, and
// Wait blocks until every task has unwound.
package supervisor

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Supervisor runs a fixed set of critical tasks and propagates the first
// failure as global cancellation.
type Supervisor struct {
	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Supervisor whose shared context is cancelled on SIGINT or
// SIGTERM. Call Go to register each critical task before calling Wait.
func New(parent context.Context) *Supervisor {
	sigCtx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	group, ctx := errgroup.WithContext(sigCtx)

	return &Supervisor{
		group:  group,
		ctx:    ctx,
		cancel: stop,
	}
}

// Context is the shared cancellation context: every suspending operation in
// a supervised task should select on it.
func (s *Supervisor) Context() context.Context {
	return s.ctx
}

// Go registers task as a critical task: name labels it in logs, and task is
// called with the supervisor's shared context. If task returns a non-nil
// error, it is logged at error level and the shared context is cancelled,
// which in turn asks every other supervised task to stop.
func (s *Supervisor) Go(name string, task func(ctx context.Context) error) {
	s.group.Go(func() error {
		err := task(s.ctx)
		if err != nil {
			log.Error().Err(err).Str("task", name).Msg("critical task failed, shutting down")
		} else {
			log.Info().Str("task", name).Msg("critical task stopped")
		}
		return err
	})
}

// Wait blocks until every registered task has returned, then releases the
// signal notification. It returns the first error from any task, if any.
func (s *Supervisor) Wait() error {
	defer s.cancel()
	return s.group.Wait()
}
