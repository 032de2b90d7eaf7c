package event

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/labcore/backend/internal/domain/shared"
)

// subscription is one handler and the event types it receives; a nil
// types set receives everything
type subscription struct {
	handler shared.EventHandler
	types   map[string]struct{}
}

func (s subscription) wildcard() bool { return s.types == nil }

// HandlerRegistry holds one subscription per handler. Writers replace the
// whole list under a lock; Publish reads the current list without one.
type HandlerRegistry struct {
	mu   sync.Mutex
	subs atomic.Pointer[[]subscription]
}

func NewHandlerRegistry() *HandlerRegistry {
	r := &HandlerRegistry{}
	r.subs.Store(&[]subscription{})
	return r
}

func (r *HandlerRegistry) current() []subscription { return *r.subs.Load() }

// Register subscribes handler to eventTypes, or to every event when none
// are given. Registering again widens the existing subscription.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := slices.Clone(r.current())
	i := slices.IndexFunc(next, func(s subscription) bool { return s.handler == handler })
	if i < 0 {
		next = append(next, subscription{handler: handler, types: map[string]struct{}{}})
		i = len(next) - 1
	}

	sub := next[i]
	switch {
	case len(eventTypes) == 0:
		sub.types = nil
	case !sub.wildcard():
		types := make(map[string]struct{}, len(sub.types)+len(eventTypes))
		for t := range sub.types {
			types[t] = struct{}{}
		}
		for _, t := range eventTypes {
			types[t] = struct{}{}
		}
		sub.types = types
	}
	next[i] = sub
	r.subs.Store(&next)
}

func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(r.current()), func(s subscription) bool { return s.handler == handler })
	r.subs.Store(&next)
}

// GetHandlers lists handlers subscribed to eventType by name before the
// catch-all ones, each in registration order
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	subs := r.current()
	var named, rest []shared.EventHandler
	for _, s := range subs {
		if s.wildcard() {
			rest = append(rest, s.handler)
		} else if _, ok := s.types[eventType]; ok {
			named = append(named, s.handler)
		}
	}
	return append(named, rest...)
}

// Count is the number of subscribed handlers
func (r *HandlerRegistry) Count() int {
	return len(r.current())
}
