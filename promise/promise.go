package promise

import (
	"context"
	"fmt"
	"sync"
)

// Promise represents the eventual completion (or failure) of an
// asynchronous operation and its resulting value.
type Promise[T any] struct {
	value    T
	err      error
	ctx      context.Context
	cancel   context.CancelFunc
	onCancel []func()
	done     chan struct{}
	settle   sync.Once
}

// New creates a pending Promise and runs the executor on its own
// goroutine.  A panic in the executor rejects the Promise.
func New[T any](
	ctx      context.Context,
	executor func(resolve func(T), reject func(error), onCancel func(func())),
) *Promise[T] {
	if executor == nil {
		panic("missing executor")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	p := &Promise[T]{done: make(chan struct{})}
	p.ctx, p.cancel = context.WithCancel(ctx)

	go func() {
		defer p.recoverPanic()
		executor(p.resolve, p.reject, func(onCancel func()) {
			if onCancel != nil {
				p.onCancel = append(p.onCancel, onCancel)
			}
		})
	}()

	return p
}

// Resolve creates a Promise in the resolved state.
func Resolve[T any](value T) *Promise[T] {
	return &Promise[T]{value: value}
}

// Reject creates a Promise in the rejected state.
func Reject[T any](err error) *Promise[T] {
	return &Promise[T]{err: err}
}

// Then continues a Promise with a mapping of its resolved value.
func Then[A, B any](p *Promise[A], resolve func(A) B) *Promise[B] {
	return New(p.ctx, func(internalResolve func(B), reject func(error), onCancel func(func())) {
		result, err := p.Await()
		if err != nil {
			reject(err)
		} else {
			internalResolve(resolve(result))
		}
	})
}

// Catch continues a Promise with a mapping of its rejection error.
func Catch[T any](p *Promise[T], reject func(err error) error) *Promise[T] {
	return New(p.ctx, func(resolve func(T), internalReject func(error), onCancel func(func())) {
		result, err := p.Await()
		if err != nil {
			internalReject(reject(err))
		} else {
			resolve(result)
		}
	})
}

// Await blocks until the Promise settles or its context is canceled.
func (p *Promise[T]) Await() (T, error) {
	if done := p.done; done != nil {
		if ctx := p.ctx; ctx != nil {
			select {
			case <-ctx.Done():
				p.Cancel()
			case <-done:
			}
		} else {
			<-done
		}
	}
	return p.value, p.err
}

func (p *Promise[T]) Cancel() {
	p.settle.Do(func() {
		p.doCancel()
	})
}

func (p *Promise[T]) resolve(value T) {
	p.settle.Do(func() {
		if ctx := p.ctx; ctx != nil && ctx.Err() != nil {
			p.doCancel()
			return
		}
		p.value = value
		if done := p.done; done != nil {
			close(done)
		}
	})
}

func (p *Promise[T]) reject(err error) {
	p.settle.Do(func() {
		if ctx := p.ctx; ctx != nil && ctx.Err() != nil {
			p.doCancel()
			return
		}
		p.err = err
		if done := p.done; done != nil {
			close(done)
		}
	})
}

func (p *Promise[T]) doCancel() {
	p.cancel()
	p.err = CanceledError{context.Cause(p.ctx)}
	if done := p.done; done != nil {
		close(done)
	}
	for _, onCancel := range p.onCancel {
		func() {
			defer func() {
				recover() // ignore any panics
			}()
			onCancel()
		}()
	}
}

func (p *Promise[T]) recoverPanic() {
	err := recover()
	if err == nil {
		return
	}

	switch v := err.(type) {
	case error:
		p.reject(v)
	default:
		p.reject(fmt.Errorf("%+v", v))
	}
}

// CanceledError reports the cancellation of a Promise.
type CanceledError struct {
	cause error
}

func (e CanceledError) Cause() error {
	return e.cause
}

func (e CanceledError) Error() string {
	if cause := e.cause; cause != nil {
		return "promise: canceled: " + cause.Error()
	}
	return "promise: canceled"
}

func (e CanceledError) Unwrap() error {
	return e.cause
}
