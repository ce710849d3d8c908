// Package authz is the authorization gate.
//
// Access is decided by exact role match: a principal either has the
// required role string or is refused. There is no hierarchy and no
// multi-role support.
//
//	id, err := authz.RequireRole(identity, auth.RoleAdmin)
package authz
