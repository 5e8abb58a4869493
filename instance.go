package enhance

import (
	"github.com/enhance-go/enhance/promise"
	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"
	"reflect"
	"sync"
)

type (
	// Instance is the merged view over a base instance and an
	// enhancement instance created together by a Composed type.  The
	// two are never separated; identity for type-membership purposes
	// follows the base instance.
	Instance struct {
		owner *Composed
		base  surface
		enh   surface
		log   logr.Logger

		mutex  sync.Mutex
		faults error
	}

	// Method is a composed method bound to an Instance.  A synchronous
	// call yields the value; an asynchronous one yields the promise.
	Method func(args ...any) (any, *promise.Promise[any], error)

	// surface is the uniform property surface over a raw instance or a
	// nested composed view.
	surface struct {
		raw  any
		val  reflect.Value
		view *Instance
	}
)

// TypeProperty is the reserved property name that resolves to the
// composed type an Instance was constructed from.
const TypeProperty = "Type"

func newInstance(owner *Composed, base, enh any, log logr.Logger) *Instance {
	return &Instance{
		owner: owner,
		base:  surfaceOf(base),
		enh:   surfaceOf(enh),
		log:   log,
	}
}

// Type returns the composed type this instance was constructed from.
func (i *Instance) Type() Type {
	return i.owner
}

// Base returns the base instance.
func (i *Instance) Base() any {
	return i.base.raw
}

// Enhancement returns the enhancement instance.
func (i *Instance) Enhancement() any {
	return i.enh.raw
}

// Get reads property name through the merged view.  The reserved
// TypeProperty resolves to the owning composed type.  A base callable
// named by the protocol guard is returned unchanged.  Otherwise an
// enhancement callable produces a composed Method and anything else
// falls through to the base.
func (i *Instance) Get(name string) (any, bool) {
	if name == TypeProperty {
		return i.owner, true
	}
	bv, bIsFn, bok := i.base.get(name)
	if bIsFn && ProtocolMethod(name) {
		return bv, true
	}
	if i.enh.callable(name) {
		return i.method(name, bIsFn), true
	}
	if bok {
		return bv, true
	}
	return nil, false
}

// Has reports whether name is own-or-inherited on either side.
func (i *Instance) Has(name string) bool {
	if name == TypeProperty {
		return true
	}
	return i.base.has(name) || i.enh.has(name)
}

// Keys enumerates own property names: the base's keys first in their
// own order, then any enhancement-only keys in the enhancement's
// order, without duplicates.
func (i *Instance) Keys() []string {
	keys := i.base.keys()
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		seen[key] = struct{}{}
	}
	for _, key := range i.enh.keys() {
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	return keys
}

// Descriptor resolves the own property descriptor for name.  The
// enhancement's own properties shadow the base's.
func (i *Instance) Descriptor(name string) (*PropertyDescriptor, bool) {
	if descriptor, ok := i.enh.descriptor(name); ok {
		return descriptor, true
	}
	return i.base.descriptor(name)
}

// Descriptors returns the merged descriptor map over both sides with
// the enhancement's descriptors shadowing the base's.
func (i *Instance) Descriptors() map[string]*PropertyDescriptor {
	merged := i.base.descriptors()
	for name, descriptor := range i.enh.descriptors() {
		merged[name] = descriptor
	}
	return merged
}

// HookFaults returns the secondary faults raised by lifecycle result
// hooks on this instance, or nil if none occurred.
func (i *Instance) HookFaults() error {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	return i.faults
}

func (i *Instance) callable(name string) bool {
	return i.base.callable(name) || i.enh.callable(name)
}

func (i *Instance) recordFault(method, hook string, err error) {
	i.log.Error(err, "result hook failed", "method", method, "hook", hook)
	i.mutex.Lock()
	defer i.mutex.Unlock()
	i.faults = multierror.Append(i.faults, &HookError{method: method, hook: hook, reason: err})
}

// surface

func surfaceOf(instance any) surface {
	if view, ok := instance.(*Instance); ok {
		return surface{raw: instance, view: view}
	}
	return surface{raw: instance, val: reflect.ValueOf(instance)}
}

func (s surface) get(name string) (value any, callable, ok bool) {
	if s.view != nil {
		value, ok = s.view.Get(name)
		return value, ok && s.view.callable(name), ok
	}
	if !s.val.IsValid() {
		return nil, false, false
	}
	if method := s.val.MethodByName(name); method.IsValid() {
		return method.Interface(), true, true
	}
	if field, ok := fieldByName(s.val, name); ok {
		callable := field.Kind() == reflect.Func && !field.IsNil()
		return field.Interface(), callable, true
	}
	return nil, false, false
}

func (s surface) callable(name string) bool {
	if s.view != nil {
		return s.view.callable(name)
	}
	if !s.val.IsValid() {
		return false
	}
	if method := s.val.MethodByName(name); method.IsValid() {
		return true
	}
	if field, ok := fieldByName(s.val, name); ok {
		return field.Kind() == reflect.Func && !field.IsNil()
	}
	return false
}

func (s surface) has(name string) bool {
	if s.view != nil {
		return s.view.Has(name)
	}
	if !s.val.IsValid() {
		return false
	}
	if method := s.val.MethodByName(name); method.IsValid() {
		return true
	}
	_, ok := fieldByName(s.val, name)
	return ok
}

func (s surface) keys() []string {
	if s.view != nil {
		return s.view.Keys()
	}
	if !s.val.IsValid() {
		return nil
	}
	var keys []string
	if elem := reflect.Indirect(s.val); elem.Kind() == reflect.Struct {
		typ := elem.Type()
		for idx := 0; idx < typ.NumField(); idx++ {
			if field := typ.Field(idx); field.IsExported() && !field.Anonymous {
				keys = append(keys, field.Name)
			}
		}
	}
	typ := s.val.Type()
	for idx := 0; idx < typ.NumMethod(); idx++ {
		keys = append(keys, typ.Method(idx).Name)
	}
	return keys
}

func (s surface) descriptor(name string) (*PropertyDescriptor, bool) {
	if s.view != nil {
		return s.view.Descriptor(name)
	}
	if !s.val.IsValid() {
		return nil, false
	}
	if method := s.val.MethodByName(name); method.IsValid() {
		return &PropertyDescriptor{
			Name:   name,
			Value:  method.Interface(),
			Method: true,
		}, true
	}
	if field, ok := fieldByName(s.val, name); ok {
		return &PropertyDescriptor{
			Name:       name,
			Value:      field.Interface(),
			Enumerable: true,
			Writable:   field.CanSet(),
		}, true
	}
	return nil, false
}

func (s surface) descriptors() map[string]*PropertyDescriptor {
	if s.view != nil {
		return s.view.Descriptors()
	}
	descriptors := make(map[string]*PropertyDescriptor)
	for _, key := range s.keys() {
		if descriptor, ok := s.descriptor(key); ok {
			descriptors[key] = descriptor
		}
	}
	return descriptors
}

func fieldByName(v reflect.Value, name string) (reflect.Value, bool) {
	elem := reflect.Indirect(v)
	if !elem.IsValid() || elem.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	if field := elem.FieldByName(name); field.IsValid() && field.CanInterface() {
		return field, true
	}
	return reflect.Value{}, false
}
