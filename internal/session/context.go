package session

import "context"

type ctxKey int

const tokenKey ctxKey = iota

// ContextWithToken attaches the session's upstream bearer token to a
// request context. The upstream client picks it up for every call.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext returns the bearer token carried by ctx, if any.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}
