package promise

import (
	"context"
	"reflect"
)

// Reflect provides untyped access to a Promise discovered at runtime,
// since Go generics offer limited inspection.
type Reflect interface {
	Context() context.Context
	UnderlyingType() reflect.Type
	Then(resolve func(data any) any) *Promise[any]
	Catch(reject func(err error) error) *Promise[any]
	AwaitAny() (any, error)
}

func (p *Promise[T]) Context() context.Context {
	return p.ctx
}

func (p *Promise[T]) UnderlyingType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (p *Promise[T]) Then(
	res func(data any) any,
) *Promise[any] {
	if res == nil {
		panic("res cannot be nil")
	}
	return New(p.ctx, func(resolve func(any), reject func(error), onCancel func(func())) {
		result, err := p.Await()
		if err != nil {
			reject(err)
			return
		}
		resolve(res(result))
	})
}

func (p *Promise[T]) Catch(
	rej func(err error) error,
) *Promise[any] {
	if rej == nil {
		panic("rej cannot be nil")
	}
	return New(p.ctx, func(resolve func(any), reject func(error), onCancel func(func())) {
		result, err := p.Await()
		if err != nil {
			reject(rej(err))
			return
		}
		resolve(result)
	})
}

func (p *Promise[T]) AwaitAny() (any, error) {
	return p.Await()
}

// Inspect reports whether typ is a Promise and, if so, its
// underlying result type.
func Inspect(typ reflect.Type) (reflect.Type, bool) {
	if typ != nil && typ.Implements(reflectType) {
		promise := reflect.Zero(typ).Interface().(Reflect)
		return promise.UnderlyingType(), true
	}
	return nil, false
}

// Coerce converts an untyped Promise into a Promise of type T.
func Coerce[T any](
	promise Reflect,
) *Promise[T] {
	return New(promise.Context(), func(resolve func(T), reject func(error), onCancel func(func())) {
		data, err := promise.AwaitAny()
		if err != nil {
			reject(err)
		} else {
			if data != nil {
				resolve(data.(T))
			} else {
				var t T
				resolve(t)
			}
		}
	})
}

var reflectType = reflect.TypeOf((*Reflect)(nil)).Elem()
