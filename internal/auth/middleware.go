package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dwikikusuma/storefront/pkg/httpx"
)

type ctxKeyIdentity struct{}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity{}).(Identity)
	return id, ok
}

// RequireRole rejects requests without a valid bearer token (401) or whose token
// carries a different role (403).
func (t *Tokens) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				httpx.Fail(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			id, err := t.Verify(strings.TrimSpace(raw))
			if err != nil {
				httpx.Fail(w, http.StatusUnauthorized, "invalid token")
				return
			}
			if id.Role != role {
				httpx.Fail(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyIdentity{}, id)))
		})
	}
}
