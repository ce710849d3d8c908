// Package auth turns credentials and bearer tokens into identities.
//
// Subpackages:
//
//   - auth/password  credential hashing (bcrypt, argon2id)
//   - auth/jwt       access-token codec
//   - auth/authctx   request-scoped identity propagation
//
// The top-level package holds the Identity type, the UserLookup contract
// that user storage implements, the Authenticator that resolves a token
// into an Identity, and the LoginService that issues tokens.
//
// Every failure is reduced to one of three kinds before it leaves this
// package: ErrInvalidCredentials, ErrUnauthenticated or ErrForbidden.
// ToAppError maps them to HTTP responses.
//
//	auth:
//	  jwt:
//	    secret: "..."
//	    algorithm: "HS256"
//	    access_token_ttl: "30m"
//	  password:
//	    algorithm: "bcrypt"
//	    bcrypt_cost: 12
package auth
