package auth

import "context"

type identityContextKey struct{}
type verifiedContextKey struct{}

// ContextWithIdentity attaches the authenticated caller to the context.
func ContextWithIdentity(ctx context.Context, ident *Identity) context.Context {
	if ident == nil {
		return ctx
	}
	return context.WithValue(ctx, identityContextKey{}, ident)
}

// IdentityFromContext extracts the authenticated caller from the context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	v, ok := ctx.Value(identityContextKey{}).(*Identity)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// ContextWithVerifiedAdmin marks the context as carrying an identity whose
// admin status was re-checked against the registry during this request.
func ContextWithVerifiedAdmin(ctx context.Context) context.Context {
	return context.WithValue(ctx, verifiedContextKey{}, true)
}

// VerifiedAdminFromContext reports whether the drift check passed for this
// request. The marker never outlives the request.
func VerifiedAdminFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, ok := ctx.Value(verifiedContextKey{}).(bool)
	return ok && v
}
