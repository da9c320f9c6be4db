package emitter

import "github.com/google/uuid"

// Remove unregisters entries of the selected namespace.
//
//	zero key, nil listener    every entry
//	zero key, listener        every entry of that listener
//	key, nil listener         every entry under key (all scopes of a type key)
//	key, listener             entries under key for that listener
//
// Scope narrows a type key to one exact bucket; InGroup restricts any of the
// above to entries tagged with the group.
func (e *Emitter) Remove(key Key, l *Listener, opts ...CallOption) (bool, error) {
	cfg, err := buildCall("Remove", removeOptions, opts)
	if err != nil {
		return false, err
	}
	if cfg.has(flagScope) && key.kind != keyType {
		return false, ErrInvalidRemoval
	}
	if !key.IsZero() {
		if err = key.validate(); err != nil {
			return false, err
		}
	}

	groups := make(map[uuid.UUID]struct{}, len(cfg.groups))
	for _, id := range cfg.groups {
		groups[id] = struct{}{}
	}

	match := func(en *entry) bool {
		if l != nil && en.listener != l {
			return false
		}
		if len(groups) > 0 && !en.taggedWithAny(groups) {
			return false
		}
		switch {
		case key.kind == keyScope:
			return en.key == bucketKey{scope: key.scope}
		case key.kind == keyType && cfg.has(flagScope):
			return en.key == bucketKey{eventType: key.typ, scope: cfg.scope}
		case key.kind == keyType:
			return en.key.eventType == key.typ
		}
		return true
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.removeWhere(cfg.namespace, match) > 0, nil
}
