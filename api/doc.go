// Package api registers the clinic API's HTTP routes.
//
//	GET    /             welcome message
//	POST   /token        exchange email and password for a bearer token
//	GET    /users/me     the caller's identity
//	GET    /users        list accounts (admin)
//	POST   /users        create an account (admin)
//	GET    /users/:id    one account (admin)
//	DELETE /users/:id    delete an account (admin)
package api
