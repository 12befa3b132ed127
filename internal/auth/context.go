package auth

import (
	"context"
	"fmt"
)

type ctxKey int

const accountCtxKey ctxKey = iota + 1

// ContextWithAccount returns a new context containing the authenticated account's ID.
//
//nolint:ireturn // returning context.Context is intentional: it's the standard context type
func ContextWithAccount(baseCtx context.Context, accountID string) context.Context {
	return context.WithValue(baseCtx, accountCtxKey, accountID)
}

// AccountFromContext extracts the account ID from the context.
// It returns an error if the account ID is missing or not a string.
func AccountFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(accountCtxKey)

	if val == nil {
		return "", fmt.Errorf("no account ID in context")
	}

	accountID, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("account ID is not a string: %T", val)
	}

	return accountID, nil
}
