// Package async carries a client call's outcome back to a UI loop. Every
// backend operation is synchronous from its own point of view; a caller that
// must not block runs it through Go and receives exactly one Result on the
// returned channel. Marshalling back onto the caller's own execution context
// is the caller's job.
package async

// Result holds either a value or the typed error of a finished call.
type Result[T any] struct {
	Value T
	Err   error
}

// Go runs fn on its own goroutine and delivers its outcome. The channel is
// buffered, so the worker never leaks even if the receiver walks away.
func Go[T any](fn func() (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		v, err := fn()
		out <- Result[T]{Value: v, Err: err}
		close(out)
	}()
	return out
}
