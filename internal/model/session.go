package model

import "net/http"

// IdentityResolver identifies the caller of a request.
// Implementations fail closed: any error yields false, never a default user.
type IdentityResolver interface {
	ResolveIdentity(r *http.Request) (User, bool)
}

// Auth types selectable by configuration.
const (
	AuthTypeBasic     = "basic"
	AuthTypeSession   = "session"
	AuthTypeSessionDB = "session_db"
)
