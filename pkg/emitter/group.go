package emitter

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Group ties registrations to a lifecycle. Listeners registered with a
// context carrying an open group are tagged with its id, and Close removes
// every entry tagged with any id the group holds, in every namespace.
type Group struct {
	emitter *Emitter
	parent  *Group
	id      uuid.UUID

	mu  sync.Mutex
	ids map[uuid.UUID]struct{}

	// closed is guarded by the emitter lock.
	closed bool
}

type groupKey struct {
	emitter *Emitter
}

// Open starts a group nested in the innermost open group of ctx, if any.
func (e *Emitter) Open(ctx context.Context) (context.Context, *Group) {
	return e.OpenWithID(ctx, uuid.New())
}

func (e *Emitter) OpenWithID(ctx context.Context, id uuid.UUID) (context.Context, *Group) {
	if ctx == nil {
		ctx = context.Background()
	}

	g := &Group{
		emitter: e,
		parent:  e.groupFrom(ctx),
		id:      id,
		ids:     map[uuid.UUID]struct{}{id: {}},
	}
	if g.parent != nil {
		g.parent.Add(id)
	}

	return context.WithValue(ctx, groupKey{emitter: e}, g), g
}

// Within runs fn under a new group and closes it on every exit path.
func (e *Emitter) Within(ctx context.Context, fn func(context.Context) error) error {
	ctx, g := e.Open(ctx)
	defer g.Close()
	return fn(ctx)
}

func (e *Emitter) groupFrom(ctx context.Context) *Group {
	g, _ := ctx.Value(groupKey{emitter: e}).(*Group)
	return g
}

func (g *Group) ID() uuid.UUID {
	return g.id
}

// Add makes entries tagged with id part of the group and of every group
// enclosing it.
func (g *Group) Add(id uuid.UUID) {
	for cur := g; cur != nil; cur = cur.parent {
		cur.mu.Lock()
		cur.ids[id] = struct{}{}
		cur.mu.Unlock()
	}
}

func (g *Group) Contains(id uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.ids[id]
	return ok
}

func (g *Group) Closed() bool {
	g.emitter.mu.RLock()
	defer g.emitter.mu.RUnlock()
	return g.closed
}

// Close removes the group's entries and returns how many were removed.
// Later calls return 0.
func (g *Group) Close() int {
	g.mu.Lock()
	ids := make(map[uuid.UUID]struct{}, len(g.ids))
	for id := range g.ids {
		ids[id] = struct{}{}
	}
	g.mu.Unlock()

	e := g.emitter
	e.mu.Lock()
	if g.closed {
		e.mu.Unlock()
		return 0
	}
	g.closed = true

	removed := 0
	for ns := range e.namespaces {
		removed += e.removeWhere(ns, func(en *entry) bool { return en.taggedWithAny(ids) })
	}
	e.mu.Unlock()

	e.logger.Debug("group closed", "group", g.id.String(), "removed", removed)
	return removed
}

// closedLocked reports whether g or any enclosing group is closed. The
// emitter lock must be held.
func (g *Group) closedLocked() bool {
	for cur := g; cur != nil; cur = cur.parent {
		if cur.closed {
			return true
		}
	}
	return false
}
