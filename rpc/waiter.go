package rpc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oakline-labs/playwright-go/object"
	"github.com/oakline-labs/playwright-go/perrors"
)

// Once subscribes to method on obj and resolves with the first matching
// event's params, then auto-unsubscribes.
func Once(obj *object.Object, method string) <-chan json.RawMessage {
	ch := make(chan json.RawMessage, 1)
	var sub object.Subscription
	sub = obj.On(method, func(params json.RawMessage) {
		select {
		case ch <- params:
		default:
		}
		sub.Cancel()
	})
	return ch
}

// ExpectEvent subscribes to method on obj, returns the first event whose
// params satisfy predicate (nil predicate matches any event), and
// auto-unsubscribes on return. It fails with perrors.TimedOut if timeout
// elapses first (timeout <= 0 disables the deadline), or with ctx.Err() if
// ctx is cancelled first.
func ExpectEvent(
	ctx context.Context,
	obj *object.Object,
	method string,
	predicate func(params json.RawMessage) bool,
	timeout time.Duration,
) (json.RawMessage, error) {
	matched := make(chan json.RawMessage, 1)
	sub := obj.On(method, func(params json.RawMessage) {
		if predicate != nil && !predicate(params) {
			return
		}
		select {
		case matched <- params:
		default:
		}
	})
	defer sub.Cancel()

	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case params := <-matched:
		return params, nil
	case <-deadline:
		return nil, &perrors.TimedOut{Waiting: method}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
