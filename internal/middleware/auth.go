package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/go-chi/chi/v5"

	"github.com/geonotify/notify-backend/pkg/logger"
)

// OrgMembership answers whether a uid may act within an org. Super admins
// are members of every org.
type OrgMembership interface {
	MemberOf(ctx context.Context, uid, orgID string) (bool, error)
}

type Middleware struct {
	AuthClient *auth.Client
	Roles      OrgMembership
}

func NewMiddleware(client *auth.Client, roles OrgMembership) *Middleware {
	return &Middleware{AuthClient: client, Roles: roles}
}

// context key
type contextKey string

const UIDKey contextKey = "uid"

// FirebaseAuth verifies the bearer ID token and stores the caller uid on
// the request context.
func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get("Authorization")
		if header == "" {
			writeAuthError(w, http.StatusUnauthorized, "auth_required", "missing Authorization header")
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeAuthError(w, http.StatusUnauthorized, "auth_required", "invalid Authorization header")
			return
		}

		token, err := m.AuthClient.VerifyIDToken(r.Context(), parts[1])
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, "auth_required", "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), UIDKey, token.UID)
		ctx = logger.ToContext(ctx, logger.FromContext(ctx).With("uid", token.UID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OrgMember gates org-scoped routes on role membership. It must run after
// FirebaseAuth and inside a route carrying an orgId parameter.
func (m *Middleware) OrgMember(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := UID(r.Context())
		orgID := chi.URLParam(r, "orgId")

		member, err := m.Roles.MemberOf(r.Context(), uid, orgID)
		if err != nil {
			logger.FromContext(r.Context()).Error("membership lookup failed", "error", err, "org_id", orgID)
			writeAuthError(w, http.StatusInternalServerError, "internal_error", "could not verify org membership")
			return
		}
		if !member {
			writeAuthError(w, http.StatusForbidden, "forbidden", "not a member of this org")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Helper to extract UID
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"code": code, "message": message})
}
