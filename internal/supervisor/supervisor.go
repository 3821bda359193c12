// Package supervisor turns a list of plugin factories into scoped, named,
// concurrently-running tasks with all-or-nothing teardown.
//
// A run has three phases. Setup is sequential and ordered: each factory is
// invoked once and its plugin's scope entered before the next factory runs,
// so a later plugin may rely on an earlier one having already published
// into the shared context. The run phase schedules one concurrent unit per
// plugin — the yielded task, or an indefinite placeholder for plugins that
// yielded none — under a single structured-concurrency scope; the first
// unit to terminate, normally or with a fault, cancels the rest, and the
// phase waits for every unit to settle. Teardown then releases every
// entered scope in reverse entry order, exactly once each, collecting
// release errors without letting them stop the unwind.
package supervisor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ensemble-cli/ensemble/internal/logging"
	"github.com/ensemble-cli/ensemble/internal/plugin"
)

// entry is one plugin slot: the entered scope, its yielded task (possibly
// nil) and the factory's display name, recorded in setup order.
type entry struct {
	name string
	plug plugin.Plugin
	task plugin.Task
}

// config holds optional settings for a Supervisor.
type config struct {
	log *logging.Logger
}

// Option configures a Supervisor.
type Option func(*config)

// WithLogger sets the logger used for lifecycle milestones. Defaults to a
// no-op logger.
func WithLogger(log *logging.Logger) Option {
	return func(c *config) { c.log = log }
}

// Supervisor runs plugins to completion or cancellation. A Supervisor is
// reusable across runs; each Run gets its own run ID in log output.
type Supervisor struct {
	log *logging.Logger
}

// New creates a Supervisor.
func New(opts ...Option) *Supervisor {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = logging.Nop()
	}
	return &Supervisor{log: cfg.log}
}

// Run sets up every factory in list order, runs the yielded tasks
// concurrently until the first one terminates or ctx is cancelled, and
// tears all plugins down in reverse entry order.
//
// Extra args are forwarded verbatim to every factory. The returned error is
// nil for a clean or externally-cancelled run; otherwise it carries the
// setup fault, the first run fault, and/or the joined teardown faults.
func (s *Supervisor) Run(ctx context.Context, shared *plugin.SharedContext, factories []plugin.Factory, args ...any) error {
	log := s.log.WithRun(uuid.NewString())

	entries, err := setup(ctx, log, shared, factories, args...)
	if err != nil {
		return err
	}

	runErr := runTasks(ctx, log, entries)

	// Teardown must run even when ctx is already cancelled.
	releaseErr := release(context.WithoutCancel(ctx), log, entries)

	log.Debug("finished")
	return errors.Join(runErr, releaseErr)
}

// setup invokes each factory once, in list order, and enters the produced
// plugin's scope. On a setup fault the scopes entered so far are released
// in reverse order and the fault is returned with any release errors joined
// behind it; remaining factories are never invoked.
func setup(ctx context.Context, log *logging.Logger, shared *plugin.SharedContext, factories []plugin.Factory, args ...any) ([]entry, error) {
	entries := make([]entry, 0, len(factories))

	for _, f := range factories {
		if f.Make == nil {
			err := fmt.Errorf("plugin %q has no factory function", f.Name)
			return nil, errors.Join(err, release(context.WithoutCancel(ctx), log, entries))
		}

		log.Debug("setting up plugin", "plugin", f.Name)
		p := f.Make(shared, args...)

		task, err := p.Enter(ctx)
		if err != nil {
			err = fmt.Errorf("setup of plugin %q: %w", f.Name, err)
			log.Error("plugin setup failed", "plugin", f.Name, "error", err)
			return nil, errors.Join(err, release(context.WithoutCancel(ctx), log, entries))
		}

		entries = append(entries, entry{name: f.Name, plug: p, task: task})
	}

	return entries, nil
}

// runTasks schedules one unit per entry under a shared scope and waits for
// all of them to settle. The first unit to return — a finished task, a
// faulted task, or external cancellation — cancels the shared context so
// the siblings wind down. Cancellation observed by a unit is a normal exit,
// never the reported fault; errgroup surfaces the first real fault after
// every unit has stopped.
func runTasks(ctx context.Context, log *logging.Logger, entries []entry) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group
	for _, e := range entries {
		e := e
		g.Go(func() error {
			defer cancel()
			return runOne(runCtx, log, e)
		})
	}

	err := g.Wait()
	log.Debug("terminating")
	return err
}

// runOne executes a single plugin slot. A nil task becomes a placeholder
// that sleeps until the whole run is cancelled, so the plugin's teardown
// stays ordered with the others.
func runOne(ctx context.Context, log *logging.Logger, e entry) error {
	plog := log.WithPlugin(e.name)

	if e.task == nil {
		plog.Debug("no background task, holding slot until termination")
		<-ctx.Done()
		plog.Debug("slot released")
		return nil
	}

	plog.Debug("task scheduled")
	err := e.task(ctx)
	switch {
	case err == nil:
		plog.Debug("task finished")
		return nil
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		plog.Debug("task cancelled")
		return nil
	default:
		plog.Error("task failed", "error", err)
		return fmt.Errorf("plugin %q: %w", e.name, err)
	}
}

// release exits every entered scope in strict reverse entry order. A
// faulting teardown is logged and collected but does not stop the unwind;
// each scope is exited exactly once.
func release(ctx context.Context, log *logging.Logger, entries []entry) error {
	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		log.Debug("tearing down plugin", "plugin", e.name)
		if err := e.plug.Exit(ctx); err != nil {
			log.Error("plugin teardown failed", "plugin", e.name, "error", err)
			errs = append(errs, fmt.Errorf("teardown of plugin %q: %w", e.name, err))
		}
	}
	return errors.Join(errs...)
}
