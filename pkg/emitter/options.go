package emitter

import (
	"strings"

	"github.com/google/uuid"

	"github.com/shuldan/emitter/pkg/contracts"
)

type Option func(*config)

type config struct {
	logger        contracts.Logger
	errorHandler  ErrorHandler
	panicHandler  PanicHandler
	recoverPanics bool
	raiseOnError  bool
}

func WithLogger(l contracts.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) {
		c.errorHandler = h
	}
}

func WithPanicHandler(h PanicHandler) Option {
	return func(c *config) {
		c.panicHandler = h
	}
}

// WithRecoverPanics turns listener panics into failures. On by default. When
// off, Emit re-panics with the *PanicError carrying the listener's stack.
func WithRecoverPanics(recoverPanics bool) Option {
	return func(c *config) {
		c.recoverPanics = recoverPanics
	}
}

// WithRaiseOnError sets the raise policy of registrations that do not pass
// RaiseOnError themselves.
func WithRaiseOnError(raise bool) Option {
	return func(c *config) {
		c.raiseOnError = raise
	}
}

type optionFlag uint16

const (
	flagOnce optionFlag = 1 << iota
	flagRaise
	flagScope
	flagNamespace
	flagBind
	flagGroup
)

var flagNames = []struct {
	flag optionFlag
	name string
}{
	{flagOnce, "Once"},
	{flagRaise, "RaiseOnError"},
	{flagScope, "Scope"},
	{flagNamespace, "Namespace"},
	{flagBind, "Bind"},
	{flagGroup, "InGroup"},
}

const (
	onOptions       = flagOnce | flagRaise | flagScope | flagNamespace | flagBind | flagGroup
	emitOptions     = flagScope | flagNamespace
	removeOptions   = flagScope | flagNamespace | flagGroup
	retrieveOptions = flagScope | flagNamespace
	waitOptions     = flagScope | flagNamespace | flagGroup
)

// CallOption tunes a single On, Emit, Remove, Retrieve or Wait call.
type CallOption func(*callConfig)

type callConfig struct {
	used      optionFlag
	once      bool
	raise     bool
	scope     string
	namespace any
	bound     contracts.ExecutionContext
	groups    []uuid.UUID
}

func Once() CallOption {
	return func(c *callConfig) {
		c.used |= flagOnce
		c.once = true
	}
}

func RaiseOnError() CallOption {
	return func(c *callConfig) {
		c.used |= flagRaise
		c.raise = true
	}
}

func Scope(scope string) CallOption {
	return func(c *callConfig) {
		c.used |= flagScope
		c.scope = normalizeScope(scope)
	}
}

// Namespace selects a listener partition. Any comparable value works; nil is
// the global namespace.
func Namespace(ns any) CallOption {
	return func(c *callConfig) {
		c.used |= flagNamespace
		c.namespace = ns
	}
}

// Bind runs the listener inside ec instead of the execution context current
// at registration.
func Bind(ec contracts.ExecutionContext) CallOption {
	return func(c *callConfig) {
		c.used |= flagBind
		c.bound = ec
	}
}

// InGroup tags a registration with a group id, or restricts a removal to
// entries tagged with it.
func InGroup(id uuid.UUID) CallOption {
	return func(c *callConfig) {
		c.used |= flagGroup
		c.groups = append(c.groups, id)
	}
}

func buildCall(operation string, allowed optionFlag, opts []CallOption) (*callConfig, error) {
	cfg := &callConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	if extra := cfg.used &^ allowed; extra != 0 {
		var names []string
		for _, f := range flagNames {
			if extra&f.flag != 0 {
				names = append(names, f.name)
			}
		}
		return nil, ErrInvalidOption.
			WithDetail("option", strings.Join(names, ", ")).
			WithDetail("operation", operation)
	}

	if err := checkNamespace(cfg.namespace); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *callConfig) has(flag optionFlag) bool {
	return c.used&flag != 0
}
