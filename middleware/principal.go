package middleware

import (
	"context"
	"net/http"

	"vendora/globals"
)

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, globals.PrincipalKey, p)
}

func GetPrincipal(r *http.Request) (Principal, bool) {
	p, ok := r.Context().Value(globals.PrincipalKey).(Principal)
	if !ok || p.UserID == "" {
		return Principal{}, false
	}
	return p, true
}
