package batch

import "sync"

// CancelToken signals a running batch to stop at the next safe point.
// Cancellation is cooperative: the item currently in flight finishes
// or aborts its wait, and no further items are dispatched.
type CancelToken struct {
	once sync.Once
	done chan struct{}
}

// NewCancelToken creates an unset token.
func NewCancelToken() *CancelToken {
	return &CancelToken{done: make(chan struct{})}
}

// Cancel sets the token. Safe to call more than once.
func (t *CancelToken) Cancel() {
	t.once.Do(func() { close(t.done) })
}

// Cancelled reports whether Cancel has been called.
func (t *CancelToken) Cancelled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed on cancellation, for use in selects.
func (t *CancelToken) Done() <-chan struct{} {
	return t.done
}
