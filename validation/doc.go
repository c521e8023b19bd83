// Package validation validates request inputs with struct tags.
//
//	type RegisterInput struct {
//	    Email    string `json:"email" validate:"notblank"`
//	    Password string `json:"password" validate:"notblank"`
//	}
//	if err := validation.Validate(in); err != nil {
//	    return err // *errors.AppError
//	}
//
// Missing values map to MISSING_FIELDS, other rule failures to INVALID_INPUT.
package validation
