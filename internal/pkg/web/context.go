package web

import (
	"context"
	"fmt"
)

type ctxKey int

const paramsCtxKey ctxKey = iota

// NewContextWithParams stores the decoded request payload.
//
//nolint:ireturn // returns the derived context
func NewContextWithParams(baseCtx context.Context, params any) context.Context {
	return context.WithValue(baseCtx, paramsCtxKey, params)
}

// ParamsFromContext returns the payload stored by NewContextWithParams. The error names the
// types only, since payloads may carry passwords and codes.
func ParamsFromContext[T any](ctx context.Context) (T, error) {
	params, ok := ctx.Value(paramsCtxKey).(T)
	if !ok {
		var want T
		return want, fmt.Errorf("params: got %T, want %T", ctx.Value(paramsCtxKey), want)
	}
	return params, nil
}
