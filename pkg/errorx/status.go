package errorx

import "net/http"

// HTTPStatus returns the status code written alongside the error envelope.
func HTTPStatus(code Code) int {
	switch code {
	case BadRequest, NoFaceDetected, MultipleFacesDetected, InvalidImageFormat,
		QuestionMismatch:
		return http.StatusBadRequest
	case ImageTooLarge:
		return http.StatusRequestEntityTooLarge
	case Unauthenticated, TokenExpired:
		return http.StatusUnauthorized
	case PermissionDenied:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case AlreadyExists, AlreadyHasCompanion, AlreadyAnswered:
		return http.StatusConflict
	case TriviaInactive, TriviaNotStarted, TriviaClosed:
		return http.StatusUnprocessableEntity
	case TooManyRequests:
		return http.StatusTooManyRequests
	case Unavailable, OracleUnavailable, ServiceUnavailable:
		return http.StatusServiceUnavailable
	case NotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
