package emitter

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/shuldan/emitter/pkg/loop"
)

// On registers l for key and returns l.
func (e *Emitter) On(ctx context.Context, key Key, l *Listener, opts ...CallOption) (*Listener, error) {
	if _, err := e.register(ctx, "On", onOptions, key, l, opts); err != nil {
		return nil, err
	}
	return l, nil
}

// Subscribe registers l for key. Closing the subscription removes exactly
// this registration.
func (e *Emitter) Subscribe(ctx context.Context, key Key, l *Listener, opts ...CallOption) (*Subscription, error) {
	en, err := e.register(ctx, "Subscribe", onOptions, key, l, opts)
	if err != nil {
		return nil, err
	}
	return &Subscription{emitter: e, entry: en}, nil
}

type Subscription struct {
	emitter *Emitter
	entry   *entry
	once    sync.Once
	removed bool
}

func (s *Subscription) Listener() *Listener {
	return s.entry.listener
}

// Close reports whether the registration was still present.
func (s *Subscription) Close() bool {
	s.once.Do(func() {
		s.removed = s.emitter.detach(s.entry)
	})
	return s.removed
}

func (e *Emitter) register(
	ctx context.Context,
	operation string,
	allowed optionFlag,
	key Key,
	l *Listener,
	opts []CallOption,
) (*entry, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := buildCall(operation, allowed, opts)
	if err != nil {
		return nil, err
	}
	if err = key.validate(); err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrInvalidListener.WithDetail("reason", "listener is nil")
	}
	if err = l.accepts(key); err != nil {
		return nil, err
	}
	if key.kind == keyScope && cfg.has(flagScope) {
		return nil, ErrInvalidOption.WithDetail("option", "Scope").WithDetail("operation", operation+" with a scope key")
	}

	bound := cfg.bound
	if bound == nil && l.async {
		if bound = loop.Current(ctx); bound == nil {
			return nil, ErrNoExecutionContext.WithDetail("listener", l.String())
		}
	}

	bk := bucketKey{eventType: key.typ, scope: cfg.scope}
	if key.kind == keyScope {
		bk = bucketKey{scope: key.scope}
	}

	raise := e.raiseOnError
	if cfg.has(flagRaise) {
		raise = cfg.raise
	}

	en := &entry{
		listener:  l,
		once:      cfg.once,
		raise:     raise,
		bound:     bound,
		tags:      make(map[uuid.UUID]struct{}, len(cfg.groups)+1),
		namespace: cfg.namespace,
		key:       bk,
	}
	for _, id := range cfg.groups {
		en.tags[id] = struct{}{}
	}

	group := e.groupFrom(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	if group != nil {
		if group.closedLocked() {
			return nil, ErrGroupClosed.WithDetail("group", group.id.String())
		}
		en.tags[group.id] = struct{}{}
	}
	e.add(en)

	return en, nil
}
