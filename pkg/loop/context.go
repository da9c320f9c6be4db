package loop

import (
	"context"

	"github.com/shuldan/emitter/pkg/contracts"
)

type currentKey struct{}

// WithCurrent marks ec as the execution context code running with the
// returned context executes in.
func WithCurrent(ctx context.Context, ec contracts.ExecutionContext) context.Context {
	return context.WithValue(ctx, currentKey{}, ec)
}

func Current(ctx context.Context) contracts.ExecutionContext {
	if ctx == nil {
		return nil
	}
	ec, _ := ctx.Value(currentKey{}).(contracts.ExecutionContext)
	return ec
}
