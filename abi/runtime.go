package abi

import (
	"context"
	"fmt"
	"sync"

	"github.com/partite-ai/idlbind/internal/logger"
	"github.com/partite-ai/idlbind/model"
)

// StringEncoding selects how strings are laid out in boundary memory.
type StringEncoding int

const (
	UTF8 StringEncoding = iota
	UTF16
)

func (e StringEncoding) String() string {
	switch e {
	case UTF8:
		return "utf8"
	case UTF16:
		return "utf16"
	}
	return fmt.Sprintf("encoding(%d)", int(e))
}

// Runtime converts values of one component interface. Delegate and
// callback-interface values need a HandleConverter registered for their
// type before they can cross; Bootstrap registers all of them.
type Runtime struct {
	ci       *model.ComponentInterface
	encoding StringEncoding
	dispatch *ReentrantMutex

	mu         sync.RWMutex
	converters map[string]*HandleConverter
	bootstrap  sync.Once
}

type Option func(*Runtime)

// WithStringEncoding sets the encoding of lowered strings. The default is
// UTF8.
func WithStringEncoding(enc StringEncoding) Option {
	return func(r *Runtime) {
		r.encoding = enc
	}
}

func NewRuntime(ci *model.ComponentInterface, opts ...Option) *Runtime {
	r := &Runtime{
		ci:         ci,
		dispatch:   NewReentrantMutex(),
		converters: make(map[string]*HandleConverter),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runtime) Interface() *model.ComponentInterface { return r.ci }

// Register installs c as the converter for t. Only the first registration
// for a type takes effect; later calls are no-ops and report false.
func (r *Runtime) Register(t model.Type, c *HandleConverter) bool {
	name := model.CanonicalName(t)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.converters[name]; ok {
		logger.Debug("Converter already registered", "type", name)
		return false
	}
	r.converters[name] = c
	logger.Debug("Registered converter", "type", name)
	return true
}

// Bootstrap registers a converter for every delegate and callback interface
// of the component interface. Only the first call does any work.
func (r *Runtime) Bootstrap() {
	r.bootstrap.Do(func() {
		for _, d := range r.ci.DelegateDefinitions() {
			r.Register(d.Type(), NewHandleConverter(model.CanonicalName(d.Type())))
		}
		for _, cb := range r.ci.CallbackInterfaceDefinitions() {
			r.Register(cb.Type(), NewHandleConverter(model.CanonicalName(cb.Type())))
		}
	})
}

// Converter returns the converter registered for t.
func (r *Runtime) Converter(t model.Type) (*HandleConverter, error) {
	name := model.CanonicalName(t)
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.converters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrConverterNotRegistered, name)
	}
	return c, nil
}

func (r *Runtime) lowerForeign(t model.Type, v Value) (uint64, error) {
	f, err := as[Foreign](t, v)
	if err != nil {
		return 0, err
	}
	c, err := r.Converter(t)
	if err != nil {
		return 0, err
	}
	return c.Lower(f.Object)
}

func (r *Runtime) liftForeign(t model.Type, h uint64) (Value, error) {
	c, err := r.Converter(t)
	if err != nil {
		return nil, err
	}
	obj, err := c.Lift(h)
	if err != nil {
		return nil, err
	}
	return Foreign{Object: obj}, nil
}

// Invoke calls fn with the object behind handle while holding the runtime's
// dispatch lock. Calls made from inside fn with the context it receives
// re-enter the lock; fn must not hand that context to other goroutines.
func (r *Runtime) Invoke(ctx context.Context, t model.Type, handle uint64, fn func(ctx context.Context, obj any) error) error {
	c, err := r.Converter(t)
	if err != nil {
		return err
	}
	return r.dispatch.WithLock(ctx, func(ctx context.Context) error {
		obj, err := c.Lift(handle)
		if err != nil {
			return err
		}
		return fn(ctx, obj)
	})
}

// Free releases handle once the other side has dropped it.
func (r *Runtime) Free(ctx context.Context, t model.Type, handle uint64) error {
	c, err := r.Converter(t)
	if err != nil {
		return err
	}
	return r.dispatch.WithLock(ctx, func(context.Context) error {
		return c.Drop(handle)
	})
}
