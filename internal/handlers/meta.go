// Package handlers exposes the HTTP surface: link issuance, redirects,
// catalog CRUD, stats queries and the test-only admin endpoints.
package handlers

import "context"

type requestMetaKey struct{}

// RequestMeta holds per-request client metadata recorded with click events.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	Referer   string
}

// ContextWithRequestMeta adds request metadata to the context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata, zero-valued when absent.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}
