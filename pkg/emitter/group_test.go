package emitter

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	shErrors "github.com/shuldan/emitter/pkg/errors"
)

func TestGroup_CloseRemovesTaggedEverywhere(t *testing.T) {
	e := newTestEmitter()
	r := &recorder{}
	base := context.Background()

	ctx, g := e.Open(base)
	mustOn(t, e, ctx, Event[UserCreated](), record[*UserCreated](r, "grouped global"))
	mustOn(t, e, ctx, Event[UserCreated](), record[*UserCreated](r, "grouped ns"), Namespace("N"))
	mustOn(t, e, ctx, ScopeKey("a"), record[any](r, "grouped scope"))
	keep := mustOn(t, e, base, Event[UserCreated](), record[*UserCreated](r, "outside"))

	if removed := g.Close(); removed != 3 {
		t.Errorf("expected 3 removed entries, got %d", removed)
	}
	if g.Close() != 0 {
		t.Error("second Close should remove nothing")
	}
	if !g.Closed() {
		t.Error("group should report closed")
	}

	listeners, _ := e.Retrieve(Key{})
	if len(listeners) != 1 || listeners[0] != keep {
		t.Errorf("expected only the outside listener, got %v", listeners)
	}
	if n, _ := e.Retrieve(Key{}, Namespace("N")); len(n) != 0 {
		t.Errorf("expected namespace N to be empty, got %v", n)
	}

	mustEmit(t, e, base, UserCreated{}, Namespace("N"), Scope("a"))
	assertCalls(t, r, "outside")
}

func TestGroup_Nested(t *testing.T) {
	e := newTestEmitter()
	r := &recorder{}

	outerCtx, outer := e.Open(context.Background())
	innerCtx, inner := e.Open(outerCtx)

	if !outer.Contains(inner.ID()) {
		t.Fatal("outer group should contain the inner id")
	}
	if inner.Contains(outer.ID()) {
		t.Error("inner group must not contain the outer id")
	}

	mustOn(t, e, innerCtx, Event[UserCreated](), record[*UserCreated](r, "inner"))
	mustOn(t, e, outerCtx, Event[UserCreated](), record[*UserCreated](r, "outer"))

	if removed := outer.Close(); removed != 2 {
		t.Errorf("closing the outer group should remove both, got %d", removed)
	}
	if _, err := e.On(innerCtx, Event[UserCreated](), record[*UserCreated](r, "late")); !shErrors.Is(err, ErrGroupClosed) {
		t.Errorf("expected ErrGroupClosed under a closed parent, got %v", err)
	}
}

func TestGroup_InnerCloseKeepsOuter(t *testing.T) {
	e := newTestEmitter()

	outerCtx, outer := e.Open(context.Background())
	innerCtx, inner := e.Open(outerCtx)

	mustOn(t, e, innerCtx, Event[UserCreated](), record[*UserCreated](&recorder{}, "inner"))
	mustOn(t, e, outerCtx, Event[UserCreated](), record[*UserCreated](&recorder{}, "outer"))

	if removed := inner.Close(); removed != 1 {
		t.Errorf("expected 1, got %d", removed)
	}
	if removed := outer.Close(); removed != 1 {
		t.Errorf("expected 1, got %d", removed)
	}
}

func TestGroup_AddMergesLifecycles(t *testing.T) {
	e := newTestEmitter()
	id := uuid.New()

	outerCtx, outer := e.Open(context.Background())
	_, inner := e.Open(outerCtx)
	inner.Add(id)

	if !outer.Contains(id) {
		t.Error("Add should propagate to enclosing groups")
	}

	mustOn(t, e, context.Background(), Event[UserCreated](), record[*UserCreated](&recorder{}, "tagged"), InGroup(id))
	mustOn(t, e, context.Background(), Event[UserCreated](), record[*UserCreated](&recorder{}, "untagged"))

	if removed := outer.Close(); removed != 1 {
		t.Errorf("expected the tagged entry removed, got %d", removed)
	}
	if got := count(t, e, Event[UserCreated]()); got != 1 {
		t.Errorf("expected 1 remaining, got %d", got)
	}
}

func TestGroup_OpenWithID(t *testing.T) {
	e := newTestEmitter()
	id := uuid.New()

	_, g := e.OpenWithID(context.Background(), id)
	if g.ID() != id || !g.Contains(id) {
		t.Error("group should carry the given id")
	}
}

func TestGroup_PerEmitter(t *testing.T) {
	first := newTestEmitter()
	second := newTestEmitter()

	ctx, g := first.Open(context.Background())
	mustOn(t, second, ctx, Event[UserCreated](), record[*UserCreated](&recorder{}, "other emitter"))

	if g.Close() != 0 {
		t.Error("a group must not remove entries of another emitter")
	}
	if count(t, second, Key{}) != 1 {
		t.Error("second emitter should keep its listener")
	}
}

func TestWithin(t *testing.T) {
	e := newTestEmitter()
	boom := errors.New("boom")

	err := e.Within(context.Background(), func(ctx context.Context) error {
		mustOn(t, e, ctx, Event[UserCreated](), record[*UserCreated](&recorder{}, "scoped"))
		if count(t, e, Key{}) != 1 {
			t.Error("listener should be registered inside the block")
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected block error, got %v", err)
	}
	if count(t, e, Key{}) != 0 {
		t.Error("Within should close the group on return")
	}

	func() {
		defer func() { _ = recover() }()
		_ = e.Within(context.Background(), func(ctx context.Context) error {
			mustOn(t, e, ctx, Event[UserCreated](), record[*UserCreated](&recorder{}, "scoped"))
			panic("escape")
		})
	}()
	if count(t, e, Key{}) != 0 {
		t.Error("Within should close the group when the block panics")
	}
}
