// Package validation checks request input and reports failures as
// AppErrors with per-field details.
//
// Struct tags are the usual entry point for request bodies:
//
//	type CreateUserRequest struct {
//	    Email    string `json:"email" validate:"required,email"`
//	    Password string `json:"password" validate:"required,min=6"`
//	    Role     string `json:"role" validate:"omitempty,role"`
//	}
//	err := validation.Validate(req)
//
// The programmatic Validator collects errors for values that do not come
// from a struct, such as path parameters:
//
//	v := validation.New()
//	v.Required("email", email).Email("email", email)
//	err := v.Validate()
package validation
