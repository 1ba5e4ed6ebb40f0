package domain

// GateState is the outcome of resolving a session. The zero value is loading.
type GateState string

const (
	GateLoading         GateState = ""
	GateAuthorized      GateState = "authorized"
	GateUnauthorized    GateState = "unauthorized"
	GateUnauthenticated GateState = "unauthenticated"
)

// Decision is what the session gate hands back for one resolution.
type Decision struct {
	State     GateState  `json:"state"`
	Principal *Principal `json:"principal,omitempty"`
	Redirect  string     `json:"redirect,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

func (d Decision) Authorized() bool {
	return d.State == GateAuthorized
}

// LoginPath is where an unauthenticated principal of the given kind is sent.
func LoginPath(kind PrincipalKind) string {
	return "/" + string(kind) + "/login"
}

// DashboardPath is where an authenticated principal of the given kind lands.
func DashboardPath(kind PrincipalKind) string {
	return "/" + string(kind) + "/dashboard"
}

// SessionRecord is the cached principal snapshot kept in the session cache.
// It is display data only and never used for authorization.
type SessionRecord struct {
	Principal Principal `json:"principal"`
	Status    string    `json:"status"`
}

// SessionCacheKey is "company:<id>", "employee:<id>" or "admin:<id>".
func SessionCacheKey(kind PrincipalKind, id string) string {
	return string(kind) + ":" + id
}
