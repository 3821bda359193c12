package itc

import "context"

// React drives a subscription with a callback, skipping emissions for which
// no value has been published yet. It returns when the callback returns an
// error, when ctx is cancelled (returning ctx.Err()), or when the
// subscription is closed (returning ErrClosed). React does not close the
// subscription; that stays with the caller.
func React(ctx context.Context, sub *Subscription, fn func(value any) error) error {
	for {
		u, err := sub.Next(ctx)
		if err != nil {
			return err
		}
		if !u.Present {
			continue
		}
		if err := fn(u.Value); err != nil {
			return err
		}
	}
}
