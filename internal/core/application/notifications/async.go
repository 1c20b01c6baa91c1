package notifications

import (
	"context"
	"sync"

	"ordering/internal/core/domain/model/order"
)

// Hooks is the lifecycle surface of the Dispatcher.
type Hooks interface {
	OrderCreated(ctx context.Context, o *order.Order)
	OrderDelivered(ctx context.Context, o *order.Order)
}

// AsyncNotifier runs the wrapped hooks on their own goroutine so the request
// path does not wait for the mail transport. The send context is detached
// from the caller's cancellation; the Dispatcher's send timeout still applies.
// Call Wait before closing the transport.
type AsyncNotifier struct {
	next     Hooks
	inflight sync.WaitGroup
}

func NewAsyncNotifier(next Hooks) *AsyncNotifier {
	return &AsyncNotifier{next: next}
}

func (n *AsyncNotifier) OrderCreated(ctx context.Context, o *order.Order) {
	n.run(ctx, func(ctx context.Context) { n.next.OrderCreated(ctx, o) })
}

func (n *AsyncNotifier) OrderDelivered(ctx context.Context, o *order.Order) {
	n.run(ctx, func(ctx context.Context) { n.next.OrderDelivered(ctx, o) })
}

// Wait blocks until every started notification has finished.
func (n *AsyncNotifier) Wait() {
	n.inflight.Wait()
}

func (n *AsyncNotifier) run(ctx context.Context, hook func(context.Context)) {
	detached := context.WithoutCancel(ctx)
	n.inflight.Add(1)
	go func() {
		defer n.inflight.Done()
		hook(detached)
	}()
}
