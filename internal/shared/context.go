package shared

import "context"

// RequestMeta identifies who triggered the current request and from where.
// It is established once by middleware and passed explicitly through context;
// nothing in the application reads ambient global state.
type RequestMeta struct {
	Actor    string
	SourceIP string
}

type requestMetaKey struct{}

// ContextWithRequestMeta stores the request metadata in context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts the request metadata from context.
// The zero value is returned for background work with no inbound request.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}
