package domain

import "context"

// Principal roles.
const (
	RoleTeam  = "team"
	RoleAdmin = "admin"
)

// Principal identifies the authenticated caller. TeamID is 0 for admins
// acting outside any team scope.
type Principal struct {
	TeamID int64
	Role   string
}

// Admin reports whether the principal may act on any team's behalf.
func (p Principal) Admin() bool { return p.Role == RoleAdmin }

// CanAccessTeam reports whether the principal may read or mutate data owned
// by the given team.
func (p Principal) CanAccessTeam(teamID int64) bool {
	return p.Admin() || p.TeamID == teamID
}

type principalKey struct{}

// WithPrincipal stores the principal in the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
