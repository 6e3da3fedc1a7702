package apperror

// Action values tell the client what to do after a failure.
const (
	ActionTryAgain        = "try_again"
	ActionPickAnotherTime = "pick_another_time"
	ActionFixInput        = "fix_input"
	ActionReload          = "reload"
)

// AppError is a custom error type that includes an HTTP status code and an optional internal error code.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Message string // User-facing error message
	Action  string // Client hint, one of the Action* constants (optional)
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WithAction returns a sentinel carrying a client action hint.
func WithAction(code int, message, action string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Action:  action,
	}
}

// Because wraps cause under sentinel so that errors.Is matches both.
// The sentinel's status, message and action are kept.
func Because(sentinel *AppError, cause error) error {
	return &chained{AppError: AppError{
		Code:    sentinel.Code,
		Message: sentinel.Message,
		Action:  sentinel.Action,
		Err:     cause,
	}, sentinel: sentinel}
}

type chained struct {
	AppError
	sentinel *AppError
}

func (c *chained) Unwrap() []error {
	if c.Err == nil {
		return []error{c.sentinel}
	}
	return []error{c.sentinel, c.Err}
}

func (c *chained) As(target any) bool {
	if t, ok := target.(**AppError); ok {
		*t = &c.AppError
		return true
	}
	return false
}
