package services

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/skateshop/storefront/internal/core/domain/cart"
	"github.com/skateshop/storefront/internal/core/ports"
)

var cartMutationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by action",
	},
	[]string{"action"},
)

var cartEventsDroppedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "cart_events_dropped_total",
		Help: "Cart change events dropped because the async delivery queue was full",
	},
)

func init() {
	prometheus.MustRegister(cartMutationsTotal, cartEventsDroppedTotal)
}

// CartNotifier fans a change event out to every observer. All observers run even when
// some fail; the joined error is returned.
type CartNotifier struct {
	observers []ports.CartObserver
}

func NewCartNotifier(observers ...ports.CartObserver) *CartNotifier {
	n := &CartNotifier{}
	for _, o := range observers {
		if o != nil {
			n.observers = append(n.observers, o)
		}
	}
	return n
}

func (n *CartNotifier) CartChanged(ctx context.Context, ev cart.ChangeEvent) error {
	var errs []error
	for _, o := range n.observers {
		if err := o.CartChanged(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MetricsObserver counts cart mutations.
type MetricsObserver struct{}

func (MetricsObserver) CartChanged(_ context.Context, ev cart.ChangeEvent) error {
	cartMutationsTotal.WithLabelValues(string(ev.Action)).Inc()
	return nil
}

// LogObserver writes one debug line per mutation.
type LogObserver struct {
	Logger *logrus.Logger
}

func (o LogObserver) CartChanged(_ context.Context, ev cart.ChangeEvent) error {
	if o.Logger == nil {
		return nil
	}
	o.Logger.WithFields(logrus.Fields{
		"session_id": ev.SessionID,
		"action":     ev.Action,
		"item_id":    ev.ItemID,
		"item_count": ev.ItemCount,
		"total":      ev.Total,
	}).Debug("cart changed")
	return nil
}

type queuedEvent struct {
	ctx context.Context
	ev  cart.ChangeEvent
}

// AsyncObserver delivers events to a slow observer (such as the broker publisher) from a
// background goroutine, so cart mutations never wait on it. Events are dropped with a
// warning when the queue is full.
type AsyncObserver struct {
	next   ports.CartObserver
	logger *logrus.Logger
	queue  chan queuedEvent
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewAsyncObserver(next ports.CartObserver, buffer int, logger *logrus.Logger) *AsyncObserver {
	if buffer < 1 {
		buffer = 1
	}
	a := &AsyncObserver{
		next:   next,
		logger: logger,
		queue:  make(chan queuedEvent, buffer),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

// CartChanged enqueues ev and returns immediately. The delivery context keeps ctx's values
// but not its cancellation, since the request is usually finished by then.
func (a *AsyncObserver) CartChanged(ctx context.Context, ev cart.ChangeEvent) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil
	}
	select {
	case a.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), ev: ev}:
	default:
		cartEventsDroppedTotal.Inc()
		a.warn(ev, nil, "cart event dropped, delivery queue full")
	}
	return nil
}

// Close stops accepting events and waits for queued ones to be delivered.
func (a *AsyncObserver) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()
	<-a.done
}

func (a *AsyncObserver) run() {
	defer close(a.done)
	for q := range a.queue {
		if err := a.next.CartChanged(q.ctx, q.ev); err != nil {
			a.warn(q.ev, err, "cart event delivery failed")
		}
	}
}

func (a *AsyncObserver) warn(ev cart.ChangeEvent, err error, msg string) {
	if a.logger == nil {
		return
	}
	entry := a.logger.WithFields(logrus.Fields{"session_id": ev.SessionID, "action": ev.Action})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Warn(msg)
}
