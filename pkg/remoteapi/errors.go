package remoteapi

import (
	"errors"
	"net/http"

	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
)

// Translate maps a remote failure onto an application error. Upstream 4xx
// answers keep their meaning for the caller; everything else is a dependency
// failure described by message.
func Translate(err error, message string) error {
	if err == nil {
		return nil
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		if appErr := pkgerrors.As(err); appErr != nil {
			return appErr
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
	}

	switch statusErr.StatusCode {
	case http.StatusUnauthorized:
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "sign in again to continue")
	case http.StatusForbidden:
		return pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "access denied")
	case http.StatusNotFound:
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "resource not found")
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, message)
	case http.StatusConflict:
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, message)
	case http.StatusTooManyRequests:
		return pkgerrors.Wrap(pkgerrors.CodeRateLimit, err, "too many requests")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
	}
}
