// Package plugin defines the contract every ensemble plugin satisfies.
//
// A plugin is a scoped lifespan: entering it runs setup and yields at most
// one background [Task]; exiting it runs teardown exactly once, on every
// exit path. Plugins are produced by named [Factory] values and wired
// together through the [SharedContext], which carries the ITC hub they use
// to exchange state without referencing one another.
package plugin

import (
	"context"

	"github.com/ensemble-cli/ensemble/internal/itc"
	"github.com/ensemble-cli/ensemble/internal/logging"
)

// Task is one plugin's long-running background work. It runs until it is
// done or until ctx is cancelled; cancellation must be propagated by
// returning ctx.Err(), not swallowed.
type Task func(ctx context.Context) error

// Plugin is a scoped-acquisition resource. The supervisor exclusively owns
// entering and exiting it: Enter is called exactly once to run setup and
// obtain the background task (nil means "no background work — keep my slot
// alive until the whole run terminates"), and Exit is called exactly once
// to run teardown, regardless of how the run ended.
type Plugin interface {
	Enter(ctx context.Context) (Task, error)
	Exit(ctx context.Context) error
}

// Factory produces a Plugin from the shared context. The supervisor invokes
// Make exactly once per run, passing through any caller-supplied extra
// arguments verbatim. Name identifies the plugin in logs and errors.
type Factory struct {
	Name string
	Make func(shared *SharedContext, args ...any) Plugin
}

// SharedContext is constructed once before scheduling and handed to every
// factory. No plugin may assume exclusive mutation rights over it; the hub
// operations are the coordination surface.
type SharedContext struct {
	Hub *itc.Hub
	Log *logging.Logger
}

// Lifespan adapts setup/teardown closures into a Plugin. TeardownFunc may
// be nil when a plugin has nothing to release.
type Lifespan struct {
	SetupFunc    func(ctx context.Context) (Task, error)
	TeardownFunc func(ctx context.Context) error
}

// Enter runs the setup closure. A nil SetupFunc yields no background task.
func (l *Lifespan) Enter(ctx context.Context) (Task, error) {
	if l.SetupFunc == nil {
		return nil, nil
	}
	return l.SetupFunc(ctx)
}

// Exit runs the teardown closure, if any.
func (l *Lifespan) Exit(ctx context.Context) error {
	if l.TeardownFunc == nil {
		return nil
	}
	return l.TeardownFunc(ctx)
}

// TaskOnly wraps a bare task into a Plugin with no setup or teardown beyond
// handing the task to the supervisor.
func TaskOnly(task Task) Plugin {
	return &Lifespan{
		SetupFunc: func(context.Context) (Task, error) {
			return task, nil
		},
	}
}
