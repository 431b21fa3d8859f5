package errorx

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008
	NotImplemented   Code = 100009
	TooManyRequests  Code = 100010

	// Session codes
	TokenExpired Code = 200002

	// Face recognition codes
	NoFaceDetected        Code = 300001
	MultipleFacesDetected Code = 300002
	ImageTooLarge         Code = 300003
	InvalidImageFormat    Code = 300004
	OracleUnavailable     Code = 300005
	ServiceUnavailable    Code = 300006

	// Companion codes
	AlreadyHasCompanion Code = 400001

	// Trivia codes
	TriviaInactive   Code = 500001
	AlreadyAnswered  Code = 500002
	QuestionMismatch Code = 500003
	TriviaNotStarted Code = 500004
	TriviaClosed     Code = 500005
)
