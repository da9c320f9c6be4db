package emitter

// Retrieve lists the listeners registered for key in registration order.
// A type key without Scope lists every scope of the type; with Scope it
// lists the buckets applicable at that scope, root first. A scope key lists
// the type-agnostic listeners applicable at its scope. The zero key lists
// the whole namespace.
func (e *Emitter) Retrieve(key Key, opts ...CallOption) ([]*Listener, error) {
	cfg, err := buildCall("Retrieve", retrieveOptions, opts)
	if err != nil {
		return nil, err
	}
	if cfg.has(flagScope) && key.kind != keyType {
		return nil, ErrInvalidOption.WithDetail("option", "Scope").WithDetail("operation", "Retrieve without an event key")
	}
	if !key.IsZero() {
		if err = key.validate(); err != nil {
			return nil, err
		}
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	reg, ok := e.namespaces[cfg.namespace]
	if !ok {
		return nil, nil
	}

	var entries []*entry
	switch {
	case key.kind == keyScope:
		entries = reg.chain(nil, scopeChain(key.scope))
	case key.kind == keyType && cfg.has(flagScope):
		entries = reg.chain(key.typ, scopeChain(cfg.scope))
	case key.kind == keyType:
		entries = reg.entries(func(en *entry) bool { return en.key.eventType == key.typ })
	default:
		entries = reg.entries(nil)
	}

	listeners := make([]*Listener, len(entries))
	for i, en := range entries {
		listeners[i] = en.listener
	}
	return listeners, nil
}
