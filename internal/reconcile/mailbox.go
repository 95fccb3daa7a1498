package reconcile

import "sync"

// Mailbox is an unbounded single-consumer queue of results. Send never
// blocks; the consumer polls with TryReceive.
type Mailbox struct {
	mu    sync.Mutex
	queue []Result
	ready chan struct{}
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{ready: make(chan struct{}, 1)}
}

// Send enqueues r.
func (m *Mailbox) Send(r Result) {
	m.mu.Lock()
	m.queue = append(m.queue, r)
	m.mu.Unlock()

	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// TryReceive dequeues the oldest result without blocking.
func (m *Mailbox) TryReceive() (Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return Result{}, false
	}
	r := m.queue[0]
	m.queue[0] = Result{}
	m.queue = m.queue[1:]
	return r, true
}

// Ready is signalled after a Send. Consumers that may block (the CLI) wait on
// it and then drain with TryReceive.
func (m *Mailbox) Ready() <-chan struct{} {
	return m.ready
}

// Len returns the number of queued results.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
