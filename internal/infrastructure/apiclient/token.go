package apiclient

import "context"

type tokenKey struct{}

// ContextWithToken returns a context carrying the bearer credential that
// requests made with it will forward.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the bearer credential carried by ctx, if any.
func TokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey{}).(string); ok {
		return token
	}
	return ""
}
