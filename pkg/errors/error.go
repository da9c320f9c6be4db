package errors

import (
	"bytes"
	"fmt"
	"runtime"
	"text/template"
	"time"
)

type Code string

func (c Code) New(msg string) *Error {
	return &Error{
		Code:      c,
		Message:   msg,
		Details:   make(map[string]interface{}),
		Stack:     getStack(),
		Timestamp: time.Now(),
	}
}

func WithPrefix(prefix string) func() Code {
	counter := int64(0)
	return func() Code {
		counter++
		return Code(fmt.Sprintf("%s_%04d", prefix, counter))
	}
}

type Error struct {
	Code      Code                   `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Stack     string                 `json:"-"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *Error) Error() string {
	defer func() {
		if r := recover(); r != nil {
		}
	}()

	t, err := template.New("error").Parse(e.Message)
	if err != nil {
		return e.formatSimpleMessage()
	}

	var output bytes.Buffer
	if err = t.Execute(&output, e.Details); err != nil {
		return e.formatSimpleMessage()
	}

	msg := output.String()
	if msg == "" {
		return ""
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, msg, e.Cause)
	}

	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) formatSimpleMessage() string {
	if e.Message == "" {
		return ""
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %s)", e.Code, e.Message, e.Cause.Error())
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithCause returns a copy of e wrapping err. Sentinels are never mutated.
func (e *Error) WithCause(err error) *Error {
	c := e.clone()
	c.Cause = err
	return c
}

// WithDetail returns a copy of e carrying the detail.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	c := e.clone()
	c.Details[key] = value
	return c
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any error carrying the same code, so copies made by
// WithDetail and WithCause still match their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return t.Code == e.Code
}

func (e *Error) clone() *Error {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	return &Error{
		Code:      e.Code,
		Message:   e.Message,
		Details:   details,
		Cause:     e.Cause,
		Stack:     getStack(),
		Timestamp: time.Now(),
	}
}

func getStack() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
