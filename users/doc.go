// Package users stores clinic staff accounts and adapts them to the
// lookups the auth package needs.
//
// The users table carries only login data: email (the identity key),
// password hash, display name and role.
package users
