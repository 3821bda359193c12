// Package itc provides the inter-task communication hub connecting plugins.
//
// The hub is a keyed broadcast store: producers publish the latest value for
// a string key, and any number of independent subscriptions wait for updates
// to that key. It is deliberately not a message queue — each subscription
// holds a one-shot wake signal per key and re-reads the latest value when
// woken, so a burst of publishes between two reads coalesces into a single
// emission carrying the final value.
//
// # Main Types
//
//   - [Hub]: the keyed latest-value store plus per-key wake sets
//   - [Subscription]: one subscriber's pull handle, created by [Hub.Observe]
//   - [Update]: a single emission, distinguishing "no value published yet"
//     from a published nil
//
// # Semantics
//
// A subscription observes every publish to its key that occurs after
// registration (registration happens inside [Hub.Observe], before it
// returns). Values published before registration are only visible when the
// subscription opts into replay via [WithReplay].
//
// [WithMinInterval] throttles a subscription without losing the latest
// value: after an emission, the remainder of the interval is waited out
// before the next wait-for-publish begins. [WithTimeout] bounds each wait;
// on expiry the subscription re-emits the current latest value as a
// keep-alive tick and keeps going — a timeout is never an error.
//
// # Thread Safety
//
// Hub operations are safe for concurrent use from any number of goroutines.
// A single Subscription is owned by one consumer: Next must not be called
// concurrently with itself, but Close may be called from anywhere.
//
// # Basic Usage
//
//	hub := itc.NewHub()
//
//	// Producer side
//	hub.Publish("countdown", 3)
//
//	// Consumer side
//	sub := hub.Observe("countdown", itc.WithReplay())
//	defer sub.Close()
//	for {
//	    u, err := sub.Next(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    if u.Present {
//	        fmt.Println(u.Value)
//	    }
//	}
package itc
