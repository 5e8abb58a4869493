package enhance

import (
	"fmt"
	"github.com/enhance-go/enhance/internal"
	"reflect"
)

// callFunc invokes fun with args and untangles its results.  A trailing
// error return propagates as the call's error.  The remaining results
// collapse to nil, a single value, or a []any.
func callFunc(fun reflect.Value, args []any) (any, error) {
	in, err := coerceArgs(fun.Type(), 0, args)
	if err != nil {
		return nil, err
	}
	return splitResults(fun.Call(in))
}

// coerceArgs converts args to the parameter types of fun, skipping the
// first skip parameters (the receiver, when fun is an unbound method).
func coerceArgs(fun reflect.Type, skip int, args []any) ([]reflect.Value, error) {
	numIn := fun.NumIn() - skip
	if fun.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, fmt.Errorf("expected at least %d arguments, received %d", numIn-1, len(args))
		}
	} else if len(args) != numIn {
		return nil, fmt.Errorf("expected %d arguments, received %d", numIn, len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var paramType reflect.Type
		if fun.IsVariadic() && i >= numIn-1 {
			paramType = fun.In(fun.NumIn() - 1).Elem()
		} else {
			paramType = fun.In(i + skip)
		}
		value, err := coerceArg(arg, paramType)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = value
	}
	return in, nil
}

func coerceArg(arg any, paramType reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch paramType.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Map,
			reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(paramType), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot pass untyped nil as %v", paramType)
	}
	value := reflect.ValueOf(arg)
	if value.Type().AssignableTo(paramType) {
		return value, nil
	}
	if value.Type().ConvertibleTo(paramType) {
		return value.Convert(paramType), nil
	}
	return reflect.Value{}, fmt.Errorf("%v is not assignable to %v", value.Type(), paramType)
}

func splitResults(out []reflect.Value) (any, error) {
	var results []any
	var err error
	for i, value := range out {
		if i == len(out)-1 && value.Type() == internal.ErrorType {
			if !value.IsNil() {
				err = value.Interface().(error)
			}
			continue
		}
		results = append(results, value.Interface())
	}
	switch len(results) {
	case 0:
		return nil, err
	case 1:
		return results[0], err
	default:
		return results, err
	}
}

func resultError(out []reflect.Value) error {
	if n := len(out); n > 0 {
		if last := out[n-1]; last.Type() == internal.ErrorType && !last.IsNil() {
			return last.Interface().(error)
		}
	}
	return nil
}
