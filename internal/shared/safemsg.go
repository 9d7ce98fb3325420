package shared

import "errors"

// UserSafeMessage maps domain errors onto messages safe to show in views.
// Unknown errors collapse to a generic message so internals never leak.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "The requested record could not be found."
	case errors.Is(err, ErrValidation):
		return "Please check the submitted values and try again."
	case errors.Is(err, ErrConflict):
		return "This action is blocked by related records."
	case errors.Is(err, ErrInvalidCredentials):
		return "Email or password is incorrect."
	default:
		return "Something went wrong. Please try again."
	}
}
