package emitter

import (
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/shuldan/emitter/pkg/contracts"
	"github.com/shuldan/emitter/pkg/logger"
)

type Emitter struct {
	mu         sync.RWMutex
	namespaces map[any]*registry

	logger        contracts.Logger
	errorHandler  ErrorHandler
	panicHandler  PanicHandler
	recoverPanics bool
	raiseOnError  bool
}

func New(opts ...Option) *Emitter {
	cfg := &config{recoverPanics: true}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger, _ = logger.NewLogger(logger.WithWriter(os.Stderr))
	}
	cfg.logger = logger.Named(cfg.logger, "emitter")
	if cfg.errorHandler == nil {
		cfg.errorHandler = NewLogErrorHandler(cfg.logger)
	}
	if cfg.panicHandler == nil {
		cfg.panicHandler = NewLogPanicHandler(cfg.logger)
	}

	return &Emitter{
		namespaces:    make(map[any]*registry),
		logger:        cfg.logger,
		errorHandler:  cfg.errorHandler,
		panicHandler:  cfg.panicHandler,
		recoverPanics: cfg.recoverPanics,
		raiseOnError:  cfg.raiseOnError,
	}
}

// Reset drops every listener in every namespace.
func (e *Emitter) Reset() {
	e.mu.Lock()
	e.namespaces = make(map[any]*registry)
	e.mu.Unlock()
}

// Namespaces lists the namespaces holding at least one listener. The global
// namespace is reported as nil.
func (e *Emitter) Namespaces() []any {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]any, 0, len(e.namespaces))
	for ns := range e.namespaces {
		out = append(out, ns)
	}
	return out
}

func (e *Emitter) add(en *entry) {
	reg, ok := e.namespaces[en.namespace]
	if !ok {
		reg = newRegistry()
		e.namespaces[en.namespace] = reg
	}
	reg.add(en)
}

// detach removes a single entry, typically a once entry about to run.
func (e *Emitter) detach(en *entry) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	reg, ok := e.namespaces[en.namespace]
	if !ok || !reg.removeEntry(en) {
		return false
	}
	if reg.empty() {
		delete(e.namespaces, en.namespace)
	}
	return true
}

// removeWhere must be called with the lock held.
func (e *Emitter) removeWhere(ns any, match func(*entry) bool) int {
	reg, ok := e.namespaces[ns]
	if !ok {
		return 0
	}
	removed := reg.removeIf(match)
	if reg.empty() {
		delete(e.namespaces, ns)
	}
	return removed
}

func checkNamespace(ns any) error {
	if ns == nil {
		return nil
	}
	if !reflect.ValueOf(ns).Comparable() {
		return ErrInvalidNamespace.WithDetail("type", fmt.Sprintf("%T", ns))
	}
	return nil
}
