package enhance

import (
	"fmt"
	"github.com/enhance-go/enhance/promise"
	"reflect"
	"unicode"
	"unicode/utf8"
)

type (
	// MethodError reports a failed composed method call.
	MethodError struct {
		name   string
		reason error
	}

	// HookError reports a failed lifecycle result hook.  It is always
	// secondary: the primary composed result is never masked by it.
	HookError struct {
		method string
		hook   string
		reason error
	}
)

// Invoke calls method name through the merged view and returns either
// the synchronous result or a promise to it.
func (i *Instance) Invoke(name string, args ...any) (any, *promise.Promise[any], error) {
	value, ok := i.Get(name)
	if !ok {
		return nil, nil, &MethodError{name: name,
			reason: fmt.Errorf("%v has no property %q", i.owner.Name(), name)}
	}
	switch fn := value.(type) {
	case Method:
		return fn(args...)
	default:
		fun := reflect.ValueOf(value)
		if !fun.IsValid() || fun.Kind() != reflect.Func {
			return nil, nil, &MethodError{name: name,
				reason: fmt.Errorf("property %q is not callable", name)}
		}
		result, err := callFunc(fun, args)
		if err != nil {
			return nil, nil, &MethodError{name: name, reason: err}
		}
		return result, nil, nil
	}
}

func (i *Instance) method(name string, callBase bool) Method {
	return func(args ...any) (any, *promise.Promise[any], error) {
		return i.dispatch(name, callBase, args)
	}
}

// dispatch realizes the composed call: the enhancement runs first, its
// resolved value feeds the base's result hook, and the base method,
// when it participates, supplies the result the caller sees.
func (i *Instance) dispatch(name string, callBase bool, args []any) (any, *promise.Promise[any], error) {
	ev, ep, err := i.enh.invoke(name, args)
	if err != nil {
		return nil, nil, &MethodError{name: name, reason: err}
	}
	var future promise.Reflect
	if ep != nil {
		future = ep
	} else if pr, ok := ev.(promise.Reflect); ok {
		future = pr
	}
	if future != nil {
		return nil, i.settleAsync(name, callBase, args, future), nil
	}
	i.notifyReturn(name, ev)
	if callBase {
		bv, bp, berr := i.base.invoke(name, args)
		if berr != nil {
			return nil, nil, &MethodError{name: name, reason: berr}
		}
		return bv, bp, nil
	}
	return ev, nil, nil
}

// settleAsync continues a composed call whose enhancement produced a
// promise.  The composed promise settles only after the base call
// completes; a rejection skips both the hook and the base call.
func (i *Instance) settleAsync(
	name     string,
	callBase bool,
	args     []any,
	future   promise.Reflect,
) *promise.Promise[any] {
	return promise.New(future.Context(), func(resolve func(any), reject func(error), _ func(func())) {
		value, err := future.AwaitAny()
		if err != nil {
			reject(err)
			return
		}
		i.notifyReturn(name, value)
		if !callBase {
			resolve(value)
			return
		}
		bv, bp, berr := i.base.invoke(name, args)
		switch {
		case berr != nil:
			reject(&MethodError{name: name, reason: berr})
		case bp != nil:
			settle(bp, resolve, reject)
		default:
			if pr, ok := bv.(promise.Reflect); ok {
				settle(pr, resolve, reject)
			} else {
				resolve(bv)
			}
		}
	})
}

func settle(future promise.Reflect, resolve func(any), reject func(error)) {
	if value, err := future.AwaitAny(); err != nil {
		reject(err)
	} else {
		resolve(value)
	}
}

// notifyReturn invokes the base's lifecycle result hook, when defined,
// with the enhancement's resolved value and the enhancement instance.
// The hook is looked up by name at call time, its result is discarded,
// and its failure never masks the primary result.  A hook that returns
// a promise is scheduled but never awaited.
func (i *Instance) notifyReturn(name string, value any) {
	hook := hookName(name)
	if !i.base.callable(hook) {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			i.recordFault(name, hook, panicError(r))
		}
	}()
	result, pending, err := i.base.invoke(hook, []any{value, i.enh.raw})
	switch {
	case err != nil:
		i.recordFault(name, hook, err)
	case pending != nil:
		pending.Catch(func(err error) error {
			i.recordFault(name, hook, err)
			return err
		})
	default:
		if pr, ok := result.(promise.Reflect); ok {
			pr.Catch(func(err error) error {
				i.recordFault(name, hook, err)
				return err
			})
		}
	}
}

func (s surface) invoke(name string, args []any) (any, *promise.Promise[any], error) {
	if s.view != nil {
		return s.view.Invoke(name, args...)
	}
	fun, ok := s.callableValue(name)
	if !ok {
		return nil, nil, fmt.Errorf("no method %q", name)
	}
	result, err := callFunc(fun, args)
	return result, nil, err
}

func (s surface) callableValue(name string) (reflect.Value, bool) {
	if !s.val.IsValid() {
		return reflect.Value{}, false
	}
	if method := s.val.MethodByName(name); method.IsValid() {
		return method, true
	}
	if field, ok := fieldByName(s.val, name); ok &&
		field.Kind() == reflect.Func && !field.IsNil() {
		return field, true
	}
	return reflect.Value{}, false
}

// hookName derives the lifecycle result hook name for a method name,
// capitalizing only its first character.
func hookName(name string) string {
	if name == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(name)
	return "Enhanced" + string(unicode.ToUpper(first)) + name[size:] + "Return"
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%+v", r)
}

// MethodError

func (e *MethodError) Method() string {
	return e.name
}

func (e *MethodError) Error() string {
	return fmt.Sprintf("invalid call to %q: %v", e.name, e.reason)
}

func (e *MethodError) Unwrap() error {
	return e.reason
}

// HookError

func (e *HookError) Hook() string {
	return e.hook
}

func (e *HookError) Error() string {
	return fmt.Sprintf("result hook %s for method %s failed: %v", e.hook, e.method, e.reason)
}

func (e *HookError) Unwrap() error {
	return e.reason
}
