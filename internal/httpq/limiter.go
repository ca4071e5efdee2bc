// Package httpq spaces outbound requests per host. The public OSM
// services ask for at most one request per second from batch clients,
// so every request goes through a per-host queue drained on a ticker.
package httpq

import (
	"context"
	"sync"
	"time"
)

// Limiter serialises requests to each host at a fixed interval.
type Limiter struct {
	interval time.Duration

	mu    sync.Mutex
	hosts map[string]*hostQueue
}

type hostQueue struct {
	calls  chan *call
	ticker *time.Ticker
	done   chan struct{}
}

type call struct {
	ctx context.Context
	fn  func() ([]byte, error)
	out chan result
}

type result struct {
	data []byte
	err  error
}

// New creates a limiter allowing rps requests per second per host.
func New(rps int) *Limiter {
	if rps <= 0 {
		rps = 1
	}
	return &Limiter{
		interval: time.Second / time.Duration(rps),
		hosts:    make(map[string]*hostQueue),
	}
}

// Do queues fn for host and waits for its result.
func (l *Limiter) Do(ctx context.Context, host string, fn func() ([]byte, error)) ([]byte, error) {
	q := l.queue(host)

	c := &call{ctx: ctx, fn: fn, out: make(chan result, 1)}
	select {
	case q.calls <- c:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-c.out:
		return res.data, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Limiter) queue(host string) *hostQueue {
	l.mu.Lock()
	defer l.mu.Unlock()

	if q, ok := l.hosts[host]; ok {
		return q
	}

	q := &hostQueue{
		calls:  make(chan *call, 64),
		ticker: time.NewTicker(l.interval),
		done:   make(chan struct{}),
	}
	l.hosts[host] = q
	go l.run(q)
	return q
}

func (l *Limiter) run(q *hostQueue) {
	for {
		select {
		case <-q.ticker.C:
			select {
			case c := <-q.calls:
				if c.ctx.Err() != nil {
					c.out <- result{err: c.ctx.Err()}
					continue
				}
				data, err := c.fn()
				c.out <- result{data: data, err: err}
			default:
				// nothing queued this tick
			}
		case <-q.done:
			q.ticker.Stop()
			return
		}
	}
}

// Close stops every per-host worker. Queued calls are abandoned; their
// callers unblock through their contexts.
func (l *Limiter) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for host, q := range l.hosts {
		close(q.done)
		delete(l.hosts, host)
	}
}
